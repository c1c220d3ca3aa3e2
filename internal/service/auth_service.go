package service

import (
	"context"

	"github.com/sharmalakshay/listky/internal/hooks"
	"github.com/sharmalakshay/listky/internal/models"
	"github.com/sharmalakshay/listky/internal/ratelimit"
	"github.com/sharmalakshay/listky/internal/repository"
	"github.com/sharmalakshay/listky/internal/security"
	"github.com/sharmalakshay/listky/internal/session"
	"github.com/sharmalakshay/listky/pkg/errors"
	"github.com/sharmalakshay/listky/pkg/validator"
)

// decoyPINHash is verified against when the username does not exist, so a
// missing account costs the same as a wrong PIN and usernames cannot be
// enumerated by timing.
const decoyPINHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthService struct {
	userRepo  *repository.UserRepository
	creds     *security.CredentialStore
	limiter   *ratelimit.LoginLimiter
	sessions  *session.Manager
	validator *validator.Validator
	hooks     *hooks.Registry
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo *repository.UserRepository,
	creds *security.CredentialStore,
	sessions *session.Manager,
	registry *hooks.Registry,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		creds:     creds,
		limiter:   ratelimit.NewLoginLimiter(),
		sessions:  sessions,
		validator: validator.New(),
		hooks:     registry,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req *models.CreateUserRequest, clientIP string) (*models.User, error) {
	username := s.validator.NormalizeUsername(req.Username)

	if err := s.validator.ValidateUsername(username); err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePIN(req.PIN); err != nil {
		return nil, err
	}

	if req.PIN != req.PINConfirm {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "PINs do not match", 400)
	}

	pinHash, err := s.creds.HashPIN(req.PIN)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   username,
		PINHash:    pinHash,
		LastIPHash: s.creds.HashIP(clientIP),
	}

	// The username primary key resolves concurrent signups: the loser of
	// the race gets ErrAlreadyExists from the repository.
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.hooks.Emit(hooks.EventUserCreated, map[string]any{
		"username": user.Username,
		"ip_hash":  user.LastIPHash,
	})

	return user, nil
}

// Login authenticates a user and issues a session. The rate limiter is
// consulted before credentials are touched, so a locked-out attempt does
// not increment the failure counter.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, clientIP string) (*models.LoginResponse, error) {
	username := s.validator.NormalizeUsername(req.Username)

	if err := s.validator.ValidateUsername(username); err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePIN(req.PIN); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil && err != errors.ErrNotFound {
		return nil, err
	}

	// Unknown user stays allowed: lockout must not leak account
	// existence, and verification below fails regardless.
	if !s.limiter.Allow(user) {
		return nil, errors.ErrRateLimited
	}

	if user == nil {
		s.creds.VerifyPIN(req.PIN, decoyPINHash)
		s.hooks.Emit(hooks.EventUserLoginFailed, map[string]any{
			"username": username,
			"ip_hash":  s.creds.HashIP(clientIP),
		})
		return nil, errors.ErrInvalidCredentials
	}

	if !s.creds.VerifyPIN(req.PIN, user.PINHash) {
		if err := s.userRepo.RecordLoginFailure(username); err != nil {
			return nil, err
		}
		s.hooks.Emit(hooks.EventUserLoginFailed, map[string]any{
			"username": username,
			"ip_hash":  s.creds.HashIP(clientIP),
		})
		return nil, errors.ErrInvalidCredentials
	}

	ipHash := s.creds.HashIP(clientIP)
	if err := s.userRepo.RecordLoginSuccess(username, ipHash); err != nil {
		return nil, err
	}
	user.FailedAttempts = 0
	user.LastFail = nil
	user.LastIPHash = ipHash

	token, expiresAt, err := s.sessions.Create(username)
	if err != nil {
		return nil, err
	}

	s.hooks.Emit(hooks.EventUserLogin, map[string]any{
		"username": username,
		"ip_hash":  ipHash,
	})

	return &models.LoginResponse{
		User:         user,
		SessionToken: token,
		ExpiresAt:    expiresAt,
	}, nil
}

// Logout revokes a session token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.sessions.Clear(token)
}

// SessionUser resolves a session token to a username, or "" when the
// token is absent or expired.
func (s *AuthService) SessionUser(token string) (string, bool) {
	return s.sessions.User(token)
}

// GetUser fetches a user's public profile data
func (s *AuthService) GetUser(ctx context.Context, username string) (*models.User, error) {
	username = s.validator.NormalizeUsername(username)

	if err := s.validator.ValidateUsername(username); err != nil {
		return nil, errors.ErrNotFound
	}

	return s.userRepo.GetByUsername(username)
}
