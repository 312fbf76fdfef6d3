// Package handler contains the HTTP layer: request parsing, response
// writing, and nothing else. Business rules live in internal/service;
// handlers translate between HTTP and the services' domain types.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/service"
)

// UserHandler manages user registration, lookup, and email verification.
type UserHandler struct {
	users        *service.UserService
	verification *service.VerificationService
	logger       *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(
	users *service.UserService,
	verification *service.VerificationService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		users:        users,
		verification: verification,
		logger:       logger,
	}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the outward view of a user. The model already hides the
// password hash with json:"-", but a dedicated response type keeps the
// wire format stable even if the model grows internal fields.
type userResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
	}
}

// HandleCreate registers a new user.
//
// HTTP: POST /api/v1/users
// BODY: {"name": "...", "email": "...", "password": "..."}
//
// Responds 201 with the created user, 400 on validation failure, 409 when
// the email is already registered. The verification email is sent as a side
// effect; its failure does not change the response.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.users.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleSearch finds a user by exact email.
//
// HTTP: GET /api/v1/users/search?email=a@example.com
//
// Collaborator UIs use this to turn an email the owner typed into a user ID
// they can add to a list.
func (h *UserHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleVerify redeems an email verification token.
//
// HTTP: GET /api/v1/users/verify?token=...
//
// GET because this is the link users click in their mail client. 200 on
// success (including the already-verified repeat click), 400 for any
// invalid, expired, or already-used token.
func (h *UserHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.verification.Verify(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Email verified successfully"})
}
