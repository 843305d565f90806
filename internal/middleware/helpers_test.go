package middleware

import (
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func newNullLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}
