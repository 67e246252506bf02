package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender records the recipient and subject without sending anything.
// Used when MAIL_SEND_ENABLED=false.
type LogSender struct {
	Logger logrus.FieldLogger
}

func (l LogSender) Send(_ context.Context, to, subject, _, _ string) error {
	l.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail sending disabled; dropping email")
	return nil
}
