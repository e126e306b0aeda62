package adaptor

import (
	"net/http"

	"first-aid-backend/internal/dto/request"
	"first-aid-backend/internal/usecase"
	"first-aid-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	if result.OTP != nil {
		utils.ResponseSuccess(w, "OTP sent", result.OTP)
		return
	}
	utils.ResponseSuccess(w, "Login successful", result.Token)
}

// ResendOTP handles POST /api/auth/otp/resend
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.OTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.ResendOTP(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "resend OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP sent", resp)
}

// VerifyOTP handles POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.VerifyOTP(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "verify OTP")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", resp)
}

// ForgotPassword handles POST /api/auth/password/forgot
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "forgot password")
		return
	}

	utils.ResponseSuccess(w, "If the phone number is registered, an OTP has been sent", nil)
}

// ResetPassword handles POST /api/auth/password/reset
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password has been reset", nil)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", resp)
}

// RequestEmailVerification handles POST /api/auth/email/verification
func (h *AuthHandler) RequestEmailVerification(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.EmailVerificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.RequestEmailVerification(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "request email verification")
		return
	}

	utils.ResponseSuccess(w, "OTP sent", resp)
}

// VerifyEmail handles POST /api/auth/email/verify
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VerifyEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.VerifyEmail(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify email")
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully", resp)
}
