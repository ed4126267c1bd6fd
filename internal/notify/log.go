package notify

import (
	"context"

	"github.com/cinemood/auth-server/internal/logger"
	"github.com/cinemood/auth-server/internal/model"
)

var _ model.Notifier = (*Log)(nil)

// Log writes verification codes to the debug log instead of sending them.
// It is selected when no SMTP host is configured.
type Log struct {
	logger *logger.Logger
}

func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

func (n *Log) SendVerificationCode(_ context.Context, email, subject, code string) error {
	n.logger.Debug("Notifier: verification code not delivered, smtp is disabled",
		"email", email,
		"subject", subject,
		"code", code)
	return nil
}
