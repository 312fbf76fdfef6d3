package auth

import (
	"context"
	"net/http"
)

// SessionCookie is the name of the HttpOnly cookie carrying the JWT.
const SessionCookie = "session"

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type (not a plain string) means only this package
// can read or write the principal in a context — no key collisions.
type contextKey string

const principalKey contextKey = "principal"

// RequireSession is a middleware that enforces authentication on protected
// routes. It reads the JWT from the session cookie, validates it, and stores
// the Principal in the request context. If the token is missing or invalid,
// it returns 401 Unauthorized and stops the request chain.
//
// Every guarded route in the router sits behind this middleware, which is
// what makes the authorization engine's permissive no-principal fallback safe
// in deployment: a request can only reach a guard with a principal attached.
func RequireSession(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := extractPrincipal(r, sessions)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPrincipal returns a context carrying the given principal.
// Exported so tests and internal callers can establish a security context
// without minting a real JWT.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the authenticated principal.
// Returns (Principal{}, false) if the request has no security context —
// the authorization engine treats that as an unauthenticated caller.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p.UserID != ""
}

// extractPrincipal reads the session cookie and validates the JWT in it.
func extractPrincipal(r *http.Request, sessions *SessionService) (Principal, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — no session, anonymous request
		return Principal{}, err
	}

	return sessions.Validate(cookie.Value)
}
