package adaptor

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"first-aid-backend/internal/dto/request"
	"first-aid-backend/internal/usecase"
	"first-aid-backend/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Article *ArticleHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Article: NewArticleHandler(service.Article, log),
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes the
// 400 response itself and returns false when the request should stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}

// clientInfo reads the caller details recorded on a new session. RemoteAddr
// has already been rewritten by the RealIP middleware.
func clientInfo(r *http.Request) request.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return request.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}

// handleServiceError maps service errors to responses. Authentication
// failures carry no data.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials")
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrInvalidOTP):
		log.Warn(operation+" failed - invalid OTP")
		utils.ResponseUnauthorized(w, "Invalid or expired OTP")

	case errors.Is(err, usecase.ErrPhoneRegistered),
		errors.Is(err, usecase.ErrEmailTaken):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrArticleNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
