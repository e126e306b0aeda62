package entity

import "time"

type User struct {
	Base
	PhoneNumber     *string    `db:"phone_number"`
	Email           *string    `db:"email"`
	PasswordHash    string     `db:"password"`
	IsRegistered    bool       `db:"is_registered"`
	IsVerified      bool       `db:"is_verified"`
	IsSuperAdmin    bool       `db:"is_super_admin"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	LastLoginAt     *time.Time `db:"last_login_at"`
	RegisteredAt    *time.Time `db:"registered_at"`
}

// Phone returns the phone number or "" when the user has none.
func (u *User) Phone() string {
	if u.PhoneNumber == nil {
		return ""
	}
	return *u.PhoneNumber
}
