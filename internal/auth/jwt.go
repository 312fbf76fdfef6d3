// Package auth provides session tokens, the session middleware, and password
// hashing for the API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User signs up with email+password → verification email is sent
// 2. POST /api/v1/auth/login checks the password, issues a JWT session token
//    stored in an HttpOnly cookie
// 3. On subsequent API calls, middleware reads the cookie, validates the JWT,
//    and places the principal (user ID + email) in the request context
// 4. The authorization engine reads that principal when deciding access
//
// WHY JWT?
// JWT is stateless — the server stores no session data. Everything needed
// (user ID, email, expiry) is inside the signed token, and the signature
// ensures nobody can tamper with it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "listhub"

// SessionService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — keep it safe, rotate it
// periodically in production.
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionService creates a SessionService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewSessionService(secret string, ttl time.Duration) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionService{secret: []byte(secret), ttl: ttl}, nil
}

// Principal is the authenticated actor attached to a request.
//
// The email rides along in the token because the authorization engine keys
// its user lookup on the email — the human-facing credential — exactly as
// login does. Carrying it here saves a DB round-trip per request.
type Principal struct {
	UserID string
	Email  string
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (Issuer, Subject,
// ExpiresAt, IssuedAt) and adds the principal's email.
// The "sub" claim carries the internal user ID.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given principal.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and fine for a
// single-server deployment where one process signs and verifies.
func (s *SessionService) Generate(p Principal) (string, error) {
	now := time.Now()

	c := claims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// TTL returns the configured session lifetime, used by the login handler to
// size the cookie's MaxAge.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Validate parses and verifies a session token, returning the Principal it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks — without
//     jwt.WithValidMethods an attacker could try an unsigned "none" token)
func (s *SessionService) Validate(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, fmt.Errorf("auth: token expired")
		}
		return Principal{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Principal{}, fmt.Errorf("auth: token has no subject")
	}

	return Principal{UserID: c.Subject, Email: c.Email}, nil
}
