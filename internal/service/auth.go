package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/auth"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

// AuthService handles login: credential verification and session issuance.
//
// It sits between the HTTP handlers and the auth utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ SessionService (JWT)
type AuthService struct {
	users     repository.UserRepository
	sessions  *auth.SessionService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	sessions *auth.SessionService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user and the issued session token so
// the handler can set the cookie and write the response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Login verifies an email/password pair and issues a session token.
//
// Both failure modes — unknown email and wrong password — collapse into the
// same Unauthorized error with the same message, so the endpoint cannot be
// used to probe which addresses are registered.
//
// The service does NOT set cookies; that is the handler's job.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("login failed, unknown email", slog.String("email", email))
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("service/auth: fetching user by email: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Debug("login failed, wrong password", slog.String("email", email))
		return nil, apperror.Unauthorized("invalid email or password")
	}

	token, err := s.sessions.Generate(auth.Principal{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating session for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID.
//
// Used by the /auth/me handler to look up the full record after the session
// middleware validates the cookie and puts the principal on the context.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}
