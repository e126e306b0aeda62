package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes codes to the application log instead of an SMS gateway.
// Meant for development.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("sender", "log"))}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("OTP delivered",
		zap.String("destination", msg.Destination),
		zap.String("purpose", msg.Purpose),
		zap.String("otp_code", msg.Code),
		zap.Time("expires_at", msg.ExpiresAt),
	)
	return nil
}
