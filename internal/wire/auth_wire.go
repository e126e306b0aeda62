package wire

import (
	"net/http"

	"first-aid-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/login", authHandler.Login)
		r.Post("/otp/resend", authHandler.ResendOTP)
		r.Post("/otp/verify", authHandler.VerifyOTP)
		r.Post("/register", authHandler.Register)
		r.Post("/password/forgot", authHandler.ForgotPassword)
		r.Post("/password/reset", authHandler.ResetPassword)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Post("/email/verification", authHandler.RequestEmailVerification)
			r.Post("/email/verify", authHandler.VerifyEmail)
		})
	})
}
