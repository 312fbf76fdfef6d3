package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/email"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
	"github.com/tanvir/listhub/internal/token"
)

// VerificationService orchestrates the email verification flow: it issues
// one-time tokens, builds the clickable link, hands it to the mail sender,
// and later redeems the token to flip the user's verified flag.
//
// The heavy lifting — random token generation, hashing, TTL, single-use
// redemption — lives in the token package. This service only ties tokens
// to users.
type VerificationService struct {
	tokens  *token.Service
	sender  email.Sender
	users   repository.UserRepository
	baseURL string
	logger  *slog.Logger
}

// NewVerificationService creates a VerificationService.
// baseURL is the public origin of this deployment (e.g. https://lists.example.com);
// it becomes the prefix of every verification link.
func NewVerificationService(
	tokens *token.Service,
	sender email.Sender,
	users repository.UserRepository,
	baseURL string,
	logger *slog.Logger,
) *VerificationService {
	return &VerificationService{
		tokens:  tokens,
		sender:  sender,
		users:   users,
		baseURL: baseURL,
		logger:  logger,
	}
}

// SendVerificationEmail issues a fresh one-time token for the user and mails
// them the verification link. Already-verified users are skipped silently —
// re-sending them a link would only cause confusion.
func (s *VerificationService) SendVerificationEmail(ctx context.Context, user *model.User) error {
	if user.EmailVerified {
		s.logger.Debug("user already verified, skipping verification email",
			slog.String("email", user.Email))
		return nil
	}

	raw, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("service/verification: issuing token: %w", err)
	}

	link := fmt.Sprintf("%s/api/v1/users/verify?token=%s", s.baseURL, raw)
	if err := s.sender.SendVerification(ctx, user.Email, link); err != nil {
		return fmt.Errorf("service/verification: sending email to %s: %w", user.Email, err)
	}

	s.logger.Info("verification email sent", slog.String("email", user.Email))
	return nil
}

// Verify redeems a one-time token and marks the corresponding user's email
// as verified.
//
// Returns apperror.ErrInvalidToken for every token-side failure — unknown,
// expired, and already-used tokens are indistinguishable to the caller so a
// verification link leaks nothing about which of them happened.
//
// Verifying an already-verified user is a no-op success: the first click in
// a mail client's link preview and the user's real click must both land on
// a confirmation page.
func (s *VerificationService) Verify(ctx context.Context, rawToken string) error {
	userID, err := s.tokens.Redeem(ctx, rawToken)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// The token was valid but its user is gone (deleted between issue
		// and redeem). Surface the same invalid-token error; the token is
		// consumed either way.
		s.logger.Error("redeemed token references missing user",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return apperror.InvalidToken()
	}

	if user.EmailVerified {
		s.logger.Debug("user already verified", slog.String("email", user.Email))
		return nil
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("service/verification: marking user %s verified: %w", user.ID, err)
	}

	s.logger.Info("email verified", slog.String("email", user.Email))
	return nil
}
