package request

const (
	LoginModePassword = "password"
	LoginModeOTP      = "otp"
)

// LoginRequest selects the flow with Mode. Password is only read in password mode.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Password    string `json:"password" validate:"required_if=Mode password"`
	Mode        string `json:"mode" validate:"required,oneof=password otp"`
}

type OTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
}

type RegisterRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type ForgotPasswordRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

type ResetPasswordRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type EmailVerificationRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type VerifyEmailRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// ClientInfo describes the caller a session is issued to. It is read from
// the HTTP request, not the body.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
