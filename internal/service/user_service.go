package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/service/authz"
	"github.com/taskboard/taskboard-api/internal/store"
)

// LoginResult is a successful authentication: the user record and a freshly
// issued access token.
type LoginResult struct {
	User  *domain.User
	Token string
}

// UserService composes the credential verifier and the token service for the
// login flow, and exposes the user directory listing for admins.
type UserService interface {
	// Login verifies the given credentials and issues a token.
	// Returns ErrInvalidCredentials on any failure — it never reveals whether
	// the username or the password was the cause.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// ListUsers returns all users. Admin-only.
	// Returns ErrNotAuthorized for non-admin callers.
	ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	users            store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, fmt.Errorf("%w: user store cannot be nil", domain.ErrValidation)
	}
	if jwtService == nil {
		return nil, fmt.Errorf("%w: jwt service cannot be nil", domain.ErrValidation)
	}
	if passwordVerifier == nil {
		return nil, fmt.Errorf("%w: password verifier cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:            users,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "user_service")),
	}, nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Same failure as a wrong password; no username oracle.
			log.Debug("login failed: unknown username", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		log.Error("login failed: user lookup error",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.Identity())
	if err != nil {
		log.Error("login failed: token generation error",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)))
	return &LoginResult{User: user, Token: token}, nil
}

// ListUsers implements UserService.ListUsers
func (s *userServiceImpl) ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Re-resolve the caller so role changes at rest take effect immediately.
	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("failed to load caller: %w", err)
	}

	if !authz.CanActOn(user.Identity(), 0, authz.OpListUsers) {
		log.Warn("user listing denied", slog.Int64("caller_id", caller.ID))
		return nil, ErrNotAuthorized
	}

	return s.users.List(ctx)
}
