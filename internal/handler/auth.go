package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/auth"
	"github.com/tanvir/listhub/internal/service"
)

// AuthHandler manages session lifecycle: login, logout, and the current-user
// endpoint.
//
//   - HandleLogin  → verify credentials, set the session cookie
//   - HandleLogout → clear the session cookie
//   - HandleMe     → return the logged-in user's profile
type AuthHandler struct {
	auths  *service.AuthService
	ttl    int // cookie MaxAge in seconds, matches the JWT expiry
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. cookieTTL should be the session
// service's TTL so the cookie and the token inside it expire together.
func NewAuthHandler(auths *service.AuthService, sessions *auth.SessionService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auths:  auths,
		ttl:    int(sessions.TTL().Seconds()),
		logger: logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and sets the session cookie.
//
// HTTP: POST /api/v1/auth/login
// BODY: {"email": "...", "password": "..."}
//
// The JWT travels in an HttpOnly cookie, never in the response body:
// HttpOnly means JavaScript can't read it (XSS protection), SameSite=Lax
// means it isn't sent on cross-site POSTs (CSRF protection). Secure should
// be enabled in production behind HTTPS.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auths.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.ttl,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // Uncomment in production (requires HTTPS)
	})

	writeJSON(w, http.StatusOK, toUserResponse(result.User))
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/v1/auth/logout
//
// POST, not GET: logout is state-changing, and GET would be vulnerable to
// CSRF and browser pre-fetching. Sessions are stateless JWTs, so "logout"
// just deletes the client-side cookie; the token stays technically valid
// until it expires, but without the cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/v1/auth/me
// Auth: required — RequireSession puts the principal on the context.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		// Unreachable on a RequireSession-protected route, but be safe.
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	user, err := h.auths.GetUserByID(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("session principal has no user record",
			slog.String("userID", principal.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
