package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"first-aid-backend/internal/data/entity"
	"first-aid-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrOTPActive is returned by Create when (user, purpose) still has an
// unexpired code.
var ErrOTPActive = errors.New("active OTP already exists")

// OTPRepository stores at most one code per (user, purpose). A code is active
// while expires_at >= now.
type OTPRepository interface {
	FindActive(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, now time.Time) (*entity.OTP, error)
	FindActiveByCode(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, code string, now time.Time) (*entity.OTP, error)
	Create(ctx context.Context, otp *entity.OTP) error
	Consume(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func scanOTP(row pgx.Row) (*entity.OTP, error) {
	var (
		otp     entity.OTP
		purpose string
	)
	err := row.Scan(
		&otp.ID,
		&otp.UserID,
		&purpose,
		&otp.Code,
		&otp.Payload,
		&otp.ExpiresAt,
		&otp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if otp.Purpose, err = entity.ParseOTPPurpose(purpose); err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) FindActive(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, now time.Time) (*entity.OTP, error) {
	query := `
		SELECT id, user_id, purpose, code, payload, expires_at, created_at
		FROM otps
		WHERE user_id = $1
		  AND purpose = $2
		  AND expires_at >= $3
	`

	otp, err := scanOTP(r.db.QueryRow(ctx, query, userID, purpose.String(), now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active OTP",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("purpose", purpose.String()),
		)
		return nil, fmt.Errorf("find active OTP for %s purpose %s: %w", userID, purpose, err)
	}

	return otp, nil
}

func (r *otpRepository) FindActiveByCode(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, code string, now time.Time) (*entity.OTP, error) {
	query := `
		SELECT id, user_id, purpose, code, payload, expires_at, created_at
		FROM otps
		WHERE user_id = $1
		  AND purpose = $2
		  AND code = $3
		  AND expires_at >= $4
	`

	otp, err := scanOTP(r.db.QueryRow(ctx, query, userID, purpose.String(), code, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP by code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("purpose", purpose.String()),
		)
		return nil, fmt.Errorf("find OTP by code for %s purpose %s: %w", userID, purpose, err)
	}

	return otp, nil
}

// Create inserts otp, replacing an expired row for the same (user, purpose).
// otp.CreatedAt is the instant expiry is judged against. If the existing row is
// still active nothing is written and ErrOTPActive is returned, so two racing
// issuers can never both mint a code.
func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otps (id, user_id, purpose, code, payload, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, purpose) DO UPDATE
		SET id = EXCLUDED.id,
		    code = EXCLUDED.code,
		    payload = EXCLUDED.payload,
		    expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at
		WHERE otps.expires_at < EXCLUDED.created_at
	`

	result, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.UserID,
		otp.Purpose.String(),
		otp.Code,
		otp.Payload,
		otp.ExpiresAt,
		otp.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("user_id", otp.UserID.String()),
			zap.String("purpose", otp.Purpose.String()),
		)
		return fmt.Errorf("create OTP for %s purpose %s: %w", otp.UserID, otp.Purpose, err)
	}

	if result.RowsAffected() == 0 {
		return ErrOTPActive
	}

	return nil
}

// Consume deletes the code if it is still active and reports whether this
// call was the one that deleted it.
func (r *otpRepository) Consume(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `DELETE FROM otps WHERE id = $1 AND expires_at >= $2`

	result, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		r.log.Error("Failed to consume OTP",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return false, fmt.Errorf("consume OTP %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *otpRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM otps WHERE expires_at < $1`

	result, err := r.db.Exec(ctx, query, before)
	if err != nil {
		r.log.Error("Failed to delete expired OTPs", zap.Error(err))
		return 0, fmt.Errorf("delete expired OTPs: %w", err)
	}

	return result.RowsAffected(), nil
}
