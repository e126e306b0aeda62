package cmd

import (
	"context"
	"time"

	"first-aid-backend/internal/data/repository"
	"first-aid-backend/pkg/clock"

	"go.uber.org/zap"
)

// RunJanitor deletes expired codes and sessions every interval until ctx is
// canceled. The cutoff is read from clk, the same clock the services use. Expired rows are already ignored by every read, so this only
// bounds table growth.
func RunJanitor(ctx context.Context, repo *repository.Repository, clk clock.Clocker, interval time.Duration, logger *zap.Logger) {
	logger = logger.With(zap.String("component", "janitor"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, repo, clk, logger)
		}
	}
}

func sweep(ctx context.Context, repo *repository.Repository, clk clock.Clocker, logger *zap.Logger) {
	now := clk.Now()

	otps, err := repo.OTP.DeleteExpired(ctx, now)
	if err != nil {
		logger.Warn("Failed to delete expired OTPs", zap.Error(err))
	}

	sessions, err := repo.Session.CleanExpiredSessions(ctx, now)
	if err != nil {
		logger.Warn("Failed to clean expired sessions", zap.Error(err))
	}

	if otps > 0 || sessions > 0 {
		logger.Info("Expired rows removed",
			zap.Int64("otps", otps),
			zap.Int64("sessions", sessions),
		)
	}
}
