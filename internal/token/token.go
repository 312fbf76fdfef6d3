// Package token issues and redeems one-time email-verification tokens.
//
// LIFECYCLE:
//
//	Issue:  random bytes → base64url string (sent to the user)
//	                     → SHA-256 hex of that string (stored, with TTL)
//	Redeem: recompute the hash, atomically get-and-delete the entry
//
// The raw token is never persisted. Only its one-way hash reaches the store,
// so a compromised store yields nothing redeemable. SHA-256 — a fixed-output,
// unkeyed digest — is the right tool here, NOT bcrypt: redemption needs a
// deterministic lookup key, and the input already carries 64 bytes of
// entropy, so slow salted hashing would add cost without adding safety.
package token

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/kv"
)

const (
	// keyPrefix namespaces verification entries in the shared key-value store.
	keyPrefix = "email_verification:"

	// tokenBytes is the entropy of each token.
	tokenBytes = 64

	// DefaultTTL is how long an issued token stays redeemable. Expiry is
	// enforced by the store's native TTL, never by comparing timestamps here.
	DefaultTTL = 10 * time.Minute
)

// Service issues and redeems single-use verification tokens.
type Service struct {
	store  kv.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a token Service. ttl <= 0 selects DefaultTTL.
func NewService(store kv.Store, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Issue generates a fresh token bound to userID and returns the raw token
// string — the only copy that will ever exist. The store sees just the hash.
func (s *Service) Issue(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: generating randomness: %w", err)
	}

	// RawURLEncoding: URL-safe alphabet, no padding — the token travels in a
	// query parameter and must need no escaping.
	raw := base64.RawURLEncoding.EncodeToString(buf)

	if err := s.store.Set(ctx, storageKey(raw), userID, s.ttl); err != nil {
		return "", fmt.Errorf("token: storing token for user %s: %w", userID, err)
	}

	s.logger.Info("verification token issued",
		slog.String("userID", userID),
		slog.Duration("ttl", s.ttl),
	)

	return raw, nil
}

// Redeem exchanges a raw token for the user ID it was issued to, consuming
// it in the same atomic step: of N concurrent redemptions of one token,
// exactly one succeeds.
//
// Every failure — never issued, already redeemed, expired — comes back as
// the single apperror.ErrInvalidToken. Callers cannot tell which happened,
// and that is deliberate.
func (s *Service) Redeem(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", apperror.InvalidToken()
	}

	userID, err := s.store.GetDel(ctx, storageKey(raw))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			s.logger.Debug("verification token rejected")
			return "", apperror.InvalidToken()
		}
		return "", fmt.Errorf("token: redeeming token: %w", err)
	}

	s.logger.Info("verification token redeemed", slog.String("userID", userID))
	return userID, nil
}

// storageKey derives the store key for a raw token: prefix + SHA-256 hex.
func storageKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return keyPrefix + hex.EncodeToString(sum[:])
}
