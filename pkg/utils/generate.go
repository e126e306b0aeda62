package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== OTP ====================

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

// ==================== SLUG ====================

// GenerateSlug builds a URL slug from a title plus a short random suffix so
// that articles with identical titles never collide.
func GenerateSlug(title string) string {
	base := lo.KebabCase(strings.TrimSpace(title))
	suffix := lo.RandomString(5, lo.LowerCaseLettersCharset)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
