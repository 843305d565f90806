// Package notify sends transactional email. Services hand messages to a
// Dispatcher, which delivers them through a Sender on background workers.
package notify

import (
	"context"
	"errors"
)

// Message is a single plain-text email to one recipient.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender delivers one message through an email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier accepts messages for asynchronous delivery. Enqueue never blocks
// on the provider.
type Notifier interface {
	Enqueue(msgs ...Message)
}

var errNoRecipient = errors.New("message has no recipient")
