package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes messages to the log instead of sending them. Used for
// local development.
type LogSender struct {
	log logrus.FieldLogger
}

func NewLogSender(logger logrus.FieldLogger) *LogSender {
	return &LogSender{log: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("email (log provider)")
	return nil
}
