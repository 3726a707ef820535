package notifications

import (
	"log/slog"

	"github.com/you/authsvc/domain"
)

// LogServiceImpl implements domain.NotificationService by writing to the
// structured log. Used in development and as the default when no SMS
// provider is configured. Message bodies are never logged; they carry
// codes and reset links.
type LogServiceImpl struct {
	logger *slog.Logger
}

// NewLogService creates a log-backed notification service
func NewLogService(logger *slog.Logger) domain.NotificationService {
	return &LogServiceImpl{logger: logger}
}

// SendSMS implements domain.NotificationService
func (l *LogServiceImpl) SendSMS(to, message string) error {
	l.logger.Info("sms notification", "to", to)
	return nil
}

// SendEmail implements domain.NotificationService
func (l *LogServiceImpl) SendEmail(to, subject, body string) error {
	l.logger.Info("email notification", "to", to, "subject", subject)
	return nil
}
