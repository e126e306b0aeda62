package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"first-aid-backend/internal/data/entity"
	"first-aid-backend/internal/data/repository"
	"first-aid-backend/internal/dto/request"
	"first-aid-backend/internal/dto/response"
	"first-aid-backend/pkg/clock"
	"first-aid-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest, client request.ClientInfo) (*LoginResult, error)
	ResendOTP(ctx context.Context, req *request.OTPRequest) (*response.OTPIssuedResponse, error)
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest, client request.ClientInfo) (*response.TokenResponse, error)
	Register(ctx context.Context, req *request.RegisterRequest, client request.ClientInfo) (*response.TokenResponse, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
	RequestEmailVerification(ctx context.Context, userID uuid.UUID, req *request.EmailVerificationRequest) (*response.OTPIssuedResponse, error)
	VerifyEmail(ctx context.Context, userID uuid.UUID, req *request.VerifyEmailRequest) (*response.ProfileResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
}

// ResolutionKind tells whether a phone lookup found a user or made one.
type ResolutionKind int

const (
	ResolutionExisting ResolutionKind = iota + 1
	ResolutionCreated
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionExisting:
		return "existing"
	case ResolutionCreated:
		return "created"
	}
	return "unknown"
}

type Resolution struct {
	User *entity.User
	Kind ResolutionKind
}

// LoginResult holds exactly one of Token (password mode) or OTP (otp mode).
type LoginResult struct {
	Token      *response.TokenResponse
	OTP        *response.OTPIssuedResponse
	Resolution ResolutionKind
}

type authService struct {
	repo   *repository.Repository
	otp    OTPService
	hasher PasswordHasher
	clock  clock.Clocker
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	otp OTPService,
	deps Deps,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		otp:    otp,
		hasher: deps.Hasher,
		clock:  deps.Clock,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client request.ClientInfo) (*LoginResult, error) {
	if req.Mode == request.LoginModeOTP {
		return s.loginWithOTP(ctx, req.PhoneNumber)
	}
	return s.loginWithPassword(ctx, req.PhoneNumber, req.Password, client)
}

func (s *authService) loginWithPassword(ctx context.Context, phone, password string, client request.ClientInfo) (*LoginResult, error) {
	user, err := s.repo.User.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	// unknown phone and wrong password must look the same to the caller
	if user == nil || !user.IsRegistered || !s.hasher.Verify(user.PasswordHash, password) {
		s.log.Warn("Invalid login attempt", zap.String("phone_number", phone))
		return nil, ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in with password", zap.String("user_id", user.ID.String()))
	return &LoginResult{Token: token, Resolution: ResolutionExisting}, nil
}

func (s *authService) loginWithOTP(ctx context.Context, phone string) (*LoginResult, error) {
	res, err := s.resolveUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	otp, err := s.otp.Issue(ctx, res.User, entity.OTPPurposeAuth, nil)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		OTP: &response.OTPIssuedResponse{
			User:      response.UserToSummary(res.User),
			ExpiresAt: otp.ExpiresAt,
		},
		Resolution: res.Kind,
	}, nil
}

func (s *authService) ResendOTP(ctx context.Context, req *request.OTPRequest) (*response.OTPIssuedResponse, error) {
	result, err := s.loginWithOTP(ctx, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return result.OTP, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest, client request.ClientInfo) (*response.TokenResponse, error) {
	user, err := s.repo.User.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("verify OTP: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidOTP
	}

	ok, err := s.otp.Verify(ctx, user, entity.OTPPurposeAuth, req.OTP)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOTP
	}

	user.IsVerified = true
	return s.startSession(ctx, user, client)
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client request.ClientInfo) (*response.TokenResponse, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("register: %w", err)
	}

	res, err := s.resolveUser(ctx, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	user := res.User
	if user.IsRegistered {
		return nil, ErrPhoneRegistered
	}

	now := s.clock.Now()
	user.PasswordHash = hashed
	user.IsRegistered = true
	user.RegisteredAt = &now
	user.UpdatedAt = now

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.Stringer("resolution", res.Kind),
	)

	return s.startSession(ctx, user, client)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		// nothing to revoke
		s.log.Debug("Logout with malformed token")
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID, s.clock.Now()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	user, err := s.repo.User.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	if user == nil || !user.IsRegistered {
		// same answer as a real reset so phone numbers cannot be probed
		s.log.Info("Password reset for unknown phone", zap.String("phone_number", req.PhoneNumber))
		return nil
	}

	if _, err := s.otp.Issue(ctx, user, entity.OTPPurposeResetPassword, nil); err != nil {
		return err
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	user, err := s.repo.User.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if user == nil {
		return ErrInvalidOTP
	}

	ok, err := s.otp.Verify(ctx, user, entity.OTPPurposeResetPassword, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("reset password: %w", err)
	}

	now := s.clock.Now()
	user.PasswordHash = hashed
	user.UpdatedAt = now
	if err := s.repo.User.Update(ctx, user); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID, now); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) RequestEmailVerification(ctx context.Context, userID uuid.UUID, req *request.EmailVerificationRequest) (*response.OTPIssuedResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, user.ID, email); err != nil {
		return nil, err
	}

	otp, err := s.otp.Issue(ctx, user, entity.OTPPurposeVerifyEmail, &email)
	if err != nil {
		return nil, err
	}

	return &response.OTPIssuedResponse{
		User:      response.UserToSummary(user),
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, userID uuid.UUID, req *request.VerifyEmailRequest) (*response.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// the address is checked before the code is spent so a conflict leaves
	// the code usable
	pending, err := s.repo.OTP.FindActiveByCode(ctx, user.ID, entity.OTPPurposeVerifyEmail, req.OTP, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("verify email: %w", err)
	}
	if pending == nil || pending.Payload == nil {
		return nil, ErrInvalidOTP
	}

	email := *pending.Payload
	if err := s.ensureEmailFree(ctx, user.ID, email); err != nil {
		return nil, err
	}

	otp, err := s.otp.Redeem(ctx, user, entity.OTPPurposeVerifyEmail, req.OTP)
	if err != nil {
		return nil, err
	}
	if otp == nil || otp.ID != pending.ID {
		return nil, ErrInvalidOTP
	}

	now := s.clock.Now()
	user.Email = &email
	user.EmailVerifiedAt = &now
	user.UpdatedAt = now

	err = s.repo.User.Update(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("verify email: %w", err)
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))

	profile := response.UserToProfile(user)
	return &profile, nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := response.UserToProfile(user)
	return &profile, nil
}

// ==================== HELPER METHODS ====================

// resolveUser finds the user owning phone, creating an unregistered one if
// none exists. A concurrent create of the same phone resolves to Existing.
func (s *authService) resolveUser(ctx context.Context, phone string) (*Resolution, error) {
	user, err := s.repo.User.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if user != nil {
		return &Resolution{User: user, Kind: ResolutionExisting}, nil
	}

	now := s.clock.Now()
	user = &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PhoneNumber: &phone,
	}

	err = s.repo.User.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		existing, err := s.repo.User.FindByPhone(ctx, phone)
		if err != nil {
			return nil, fmt.Errorf("resolve user: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("resolve user %s: duplicate reported but not found", phone)
		}
		return &Resolution{User: existing, Kind: ResolutionExisting}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	s.log.Info("User created from phone", zap.String("user_id", user.ID.String()))
	return &Resolution{User: user, Kind: ResolutionCreated}, nil
}

func (s *authService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ensureEmailFree(ctx context.Context, userID uuid.UUID, email string) error {
	owner, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if owner != nil && owner.ID != userID {
		return ErrEmailTaken
	}
	return nil
}

// startSession stamps the login time and issues a bearer token.
func (s *authService) startSession(ctx context.Context, user *entity.User, client request.ClientInfo) (*response.TokenResponse, error) {
	now := s.clock.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: optional(client.UserAgent),
		IPAddress: optional(client.IPAddress),
		ExpiresAt: now.Add(s.config.SessionTTL()),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	return &response.TokenResponse{
		User:  response.UserToSummary(user),
		Token: session.Token.String(),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
