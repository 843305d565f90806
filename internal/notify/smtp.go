package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// SMTPSender delivers through an SMTP relay with PLAIN auth.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(host, port, username, password, fromName, fromEmail string) *SMTPSender {
	if fromEmail == "" {
		fromEmail = username
	}
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		auth: smtp.PlainAuth("", username, password, host),
		from: from,
	}
}

// Send gives up waiting when ctx is done; the underlying SMTP exchange has
// no cancellation and finishes in the background.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)

	errc := make(chan error, 1)
	go func() { errc <- e.Send(s.addr, s.auth) }()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: %w", ctx.Err())
	}
}
