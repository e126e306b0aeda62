package usecase

import (
	"context"

	"first-aid-backend/internal/data/repository"
	"first-aid-backend/pkg/clock"
	"first-aid-backend/pkg/notifier"
	"first-aid-backend/pkg/utils"

	"go.uber.org/zap"
)

// PasswordHasher hashes and checks passwords. Verify must return false for a
// malformed digest rather than fail.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
}

// Notifier hands a code to the delivery channel without waiting for it.
type Notifier interface {
	Dispatch(ctx context.Context, msg notifier.Message) bool
}

// Deps are the collaborators shared by the services.
type Deps struct {
	Clock    clock.Clocker
	Hasher   PasswordHasher
	Notifier Notifier
}

type Service struct {
	OTP     OTPService
	Auth    AuthService
	Article ArticleService
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	otp := NewOTPService(repo.OTP, deps.Notifier, deps.Clock, config.OTPTTL(), log)

	return &Service{
		OTP:     otp,
		Auth:    NewAuthService(repo, otp, deps, config, log),
		Article: NewArticleService(repo.Article, deps.Clock, log),
	}
}
