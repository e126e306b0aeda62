package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"first-aid-backend/internal/data/entity"
	"first-aid-backend/internal/data/repository"
	"first-aid-backend/pkg/clock"
	"first-aid-backend/pkg/notifier"
	"first-aid-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPService issues and redeems one-time codes. A user holds at most one
// active code per purpose.
type OTPService interface {
	// Issue returns the active code for (user, purpose) unchanged, or mints
	// and stores a new one. Only a newly minted code is delivered.
	Issue(ctx context.Context, user *entity.User, purpose entity.OTPPurpose, payload *string) (*entity.OTP, error)
	// Verify reports whether code matched an active code and consumed it.
	Verify(ctx context.Context, user *entity.User, purpose entity.OTPPurpose, code string) (bool, error)
	// Redeem is Verify that also returns the consumed code, or nil on mismatch.
	Redeem(ctx context.Context, user *entity.User, purpose entity.OTPPurpose, code string) (*entity.OTP, error)
}

type otpService struct {
	otpRepo  repository.OTPRepository
	notifier Notifier
	clock    clock.Clocker
	ttl      time.Duration
	log      *zap.Logger
}

func NewOTPService(
	otpRepo repository.OTPRepository,
	notifier Notifier,
	clock clock.Clocker,
	ttl time.Duration,
	log *zap.Logger,
) OTPService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &otpService{
		otpRepo:  otpRepo,
		notifier: notifier,
		clock:    clock,
		ttl:      ttl,
		log:      log.With(zap.String("service", "otp")),
	}
}

// issueAttempts bounds the create/re-read loop when a concurrent issuer wins
// the insert and its code is consumed before we can read it back.
const issueAttempts = 3

func (s *otpService) Issue(ctx context.Context, user *entity.User, purpose entity.OTPPurpose, payload *string) (*entity.OTP, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("issue OTP: unknown purpose %q", purpose)
	}

	for attempt := 0; attempt < issueAttempts; attempt++ {
		now := s.clock.Now()

		active, err := s.otpRepo.FindActive(ctx, user.ID, purpose, now)
		if err != nil {
			return nil, fmt.Errorf("issue OTP: %w", err)
		}
		if active != nil {
			s.log.Debug("Reusing active OTP",
				zap.String("user_id", user.ID.String()),
				zap.String("purpose", purpose.String()),
				zap.Time("expires_at", active.ExpiresAt),
			)
			return active, nil
		}

		code, err := utils.GenerateOTP()
		if err != nil {
			s.log.Error("Failed to generate OTP", zap.Error(err))
			return nil, fmt.Errorf("issue OTP: %w", err)
		}

		otp := &entity.OTP{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			UserID:    user.ID,
			Purpose:   purpose,
			Code:      code,
			Payload:   payload,
			ExpiresAt: now.Add(s.ttl),
		}

		err = s.otpRepo.Create(ctx, otp)
		if errors.Is(err, repository.ErrOTPActive) {
			// someone else stored a live code first; hand that one out
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("issue OTP: %w", err)
		}

		s.log.Info("OTP issued",
			zap.String("user_id", user.ID.String()),
			zap.String("purpose", purpose.String()),
			zap.Time("expires_at", otp.ExpiresAt),
		)
		s.deliver(ctx, user, otp)
		return otp, nil
	}

	return nil, fmt.Errorf("issue OTP for %s purpose %s: too much contention", user.ID, purpose)
}

func (s *otpService) Verify(ctx context.Context, user *entity.User, purpose entity.OTPPurpose, code string) (bool, error) {
	otp, err := s.Redeem(ctx, user, purpose, code)
	if err != nil {
		return false, err
	}
	return otp != nil, nil
}

func (s *otpService) Redeem(ctx context.Context, user *entity.User, purpose entity.OTPPurpose, code string) (*entity.OTP, error) {
	if user == nil || code == "" || !purpose.Valid() {
		return nil, nil
	}

	now := s.clock.Now()

	otp, err := s.otpRepo.FindActiveByCode(ctx, user.ID, purpose, code, now)
	if err != nil {
		return nil, fmt.Errorf("verify OTP: %w", err)
	}
	if otp == nil {
		s.log.Info("OTP mismatch",
			zap.String("user_id", user.ID.String()),
			zap.String("purpose", purpose.String()),
		)
		return nil, nil
	}

	consumed, err := s.otpRepo.Consume(ctx, otp.ID, now)
	if err != nil {
		return nil, fmt.Errorf("verify OTP: %w", err)
	}
	if !consumed {
		// lost the race to a concurrent verifier, or it just expired
		return nil, nil
	}

	s.log.Info("OTP verified",
		zap.String("user_id", user.ID.String()),
		zap.String("purpose", purpose.String()),
	)
	return otp, nil
}

func (s *otpService) deliver(ctx context.Context, user *entity.User, otp *entity.OTP) {
	destination := user.Phone()
	if otp.Purpose == entity.OTPPurposeVerifyEmail && otp.Payload != nil {
		destination = *otp.Payload
	}
	if destination == "" {
		s.log.Warn("No destination for OTP", zap.String("user_id", user.ID.String()))
		return
	}

	s.notifier.Dispatch(ctx, notifier.Message{
		Destination: destination,
		Code:        otp.Code,
		Purpose:     otp.Purpose.String(),
		ExpiresAt:   otp.ExpiresAt,
	})
}
