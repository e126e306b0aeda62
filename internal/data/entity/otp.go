package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OTPPurpose is the context a code was issued for. Only the constants below
// are valid.
type OTPPurpose string

const (
	OTPPurposeAuth          OTPPurpose = "auth"
	OTPPurposeResetPassword OTPPurpose = "reset_password"
	OTPPurposeVerifyEmail   OTPPurpose = "verify_email"
)

func (p OTPPurpose) String() string {
	return string(p)
}

func (p OTPPurpose) Valid() bool {
	switch p {
	case OTPPurposeAuth, OTPPurposeResetPassword, OTPPurposeVerifyEmail:
		return true
	}
	return false
}

// ParseOTPPurpose converts a stored value back into an OTPPurpose.
func ParseOTPPurpose(s string) (OTPPurpose, error) {
	p := OTPPurpose(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown OTP purpose %q", s)
	}
	return p, nil
}

type OTP struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Purpose   OTPPurpose `db:"purpose"`
	Code      string     `db:"code"`
	Payload   *string    `db:"payload"`
	ExpiresAt time.Time  `db:"expires_at"`
}

// ActiveAt reports whether the code can still be used at now.
func (o *OTP) ActiveAt(now time.Time) bool {
	return !o.ExpiresAt.Before(now)
}
