package notify

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"ATRAX_BACK-END/internal/config"
)

// NewSender builds the Sender selected by cfg.Provider.
func NewSender(cfg config.EmailConfig, logger logrus.FieldLogger) (Sender, error) {
	switch cfg.Provider {
	case config.ProviderResend:
		return NewResendSender(cfg.ResendAPIKey, formatFrom(cfg.FromName, cfg.FromEmail)), nil
	case config.ProviderSendGrid:
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail), nil
	case config.ProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromName, cfg.FromEmail), nil
	case config.ProviderLog, "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func formatFrom(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}
