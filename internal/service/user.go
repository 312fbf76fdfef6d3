// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
// Code is organised into three layers:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and domain types, never HTTP types, and they
// return domain errors (apperror), never status codes. Every service takes
// its repositories as interfaces so tests can inject mocks — see the
// *_test.go files in this package.
//
// THE DEPENDENCY CHAIN:
//
//	main.go creates:  DB → Repository → Service → Handler
//	At runtime:       Handler calls Service calls Repository calls DB
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/auth"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

// Validation constants. Named constants instead of magic numbers so the
// limits are easy to find and show up self-documented in error messages.
const (
	MaxUserNameLength = 50
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes, so longer passwords would
	// silently truncate. Reject them instead.
	MaxPasswordLength = 72
)

// UserService handles user registration and lookup.
type UserService struct {
	users        repository.UserRepository
	passwords    *auth.PasswordService
	verification *VerificationService
	logger       *slog.Logger
}

// NewUserService creates a UserService with all required dependencies.
func NewUserService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	verification *VerificationService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:        users,
		passwords:    passwords,
		verification: verification,
		logger:       logger,
	}
}

// Signup registers a new user account.
//
// Flow:
//  1. Validate name / email / password against the constants above
//  2. Reject duplicate emails with a Conflict error
//  3. bcrypt-hash the password — the plaintext never reaches the repository
//  4. Persist the user with EmailVerified=false
//  5. Send the verification email
//
// Step 5 is deliberately non-fatal: an unreachable mail provider must not
// roll back a successful registration. The user can request another email
// later; the failure is logged for the operator.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if utf8.RuneCountInString(name) > MaxUserNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxUserNameLength))
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d characters or less", MaxPasswordLength))
	}

	// Friendly duplicate check before the INSERT. The UNIQUE index on email
	// still backs this up against races — the repository maps a constraint
	// violation to the same Conflict error.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.logger.Debug("signup rejected, email already registered", slog.String("email", email))
		return nil, apperror.Conflict("user", email)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: creating user: %w", err)
	}

	if err := s.verification.SendVerificationEmail(ctx, user); err != nil {
		s.logger.Error("failed to send verification email",
			slog.String("userID", user.ID),
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Info("user created and verification email sent",
			slog.String("userID", user.ID),
			slog.String("email", user.Email),
		)
	}

	return user, nil
}

// FindByEmail looks a user up by their exact email address.
// Returns apperror.ErrNotFound if no such user exists.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	return s.users.GetByEmail(ctx, email)
}

// validateEmail rejects empty and malformed addresses. net/mail implements
// RFC 5322 parsing, which is as strict as a signup form needs to be — the
// verification email is the real proof of ownership anyway.
func validateEmail(email string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.ValidationFailed("email", "email must be a valid address")
	}
	return nil
}
