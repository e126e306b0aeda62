package response

import (
	"time"

	"first-aid-backend/internal/data/entity"
)

type UserSummary struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
}

// OTPIssuedResponse is returned when a code was issued or resent.
type OTPIssuedResponse struct {
	User      UserSummary `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type TokenResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

type ProfileResponse struct {
	ID              string     `json:"id"`
	PhoneNumber     *string    `json:"phone_number"`
	Email           *string    `json:"email"`
	IsRegistered    bool       `json:"is_registered"`
	IsVerified      bool       `json:"is_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Helper converters
func UserToSummary(user *entity.User) UserSummary {
	return UserSummary{
		ID:          user.ID.String(),
		PhoneNumber: user.Phone(),
	}
}

func UserToProfile(user *entity.User) ProfileResponse {
	return ProfileResponse{
		ID:              user.ID.String(),
		PhoneNumber:     user.PhoneNumber,
		Email:           user.Email,
		IsRegistered:    user.IsRegistered,
		IsVerified:      user.IsVerified,
		EmailVerifiedAt: user.EmailVerifiedAt,
		LastLoginAt:     user.LastLoginAt,
		CreatedAt:       user.CreatedAt,
	}
}
