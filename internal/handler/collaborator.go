package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/service"
)

// CollaboratorHandler manages a list's sharing roster.
//
// The guard tiers encode the sharing rules: anyone with READ access may see
// who a list is shared with, but only the owner can add, change, or remove
// collaborators.
type CollaboratorHandler struct {
	collabs *service.CollaboratorService
	logger  *slog.Logger
}

// NewCollaboratorHandler creates a CollaboratorHandler.
func NewCollaboratorHandler(collabs *service.CollaboratorService, logger *slog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{collabs: collabs, logger: logger}
}

// collaboratorRequest is the body for add and update. CanEdit is a pointer
// so a missing field is distinguishable from an explicit false.
type collaboratorRequest struct {
	UserID  string `json:"userId"`
	CanEdit *bool  `json:"canEdit"`
}

// HandleList returns the collaborators of a list (owners excluded).
//
// HTTP: GET /api/v1/todo/lists/{listId}/collaborators
// Guard: READ tier on {listId}
func (h *CollaboratorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	collabs, err := h.collabs.List(r.Context(), chi.URLParam(r, "listId"))
	if err != nil {
		writeError(w, err)
		return
	}
	if collabs == nil {
		collabs = []service.Collaborator{}
	}

	writeJSON(w, http.StatusOK, collabs)
}

// HandleAdd shares the list with another user.
//
// HTTP: POST /api/v1/todo/lists/{listId}/collaborators
// Guard: OWNER tier on {listId}
// BODY: {"userId": "...", "canEdit": true}
func (h *CollaboratorHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req collaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}
	if req.CanEdit == nil {
		writeError(w, apperror.ValidationFailed("canEdit", "canEdit is required"))
		return
	}

	collab, err := h.collabs.Add(r.Context(), chi.URLParam(r, "listId"), req.UserID, *req.CanEdit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, collab)
}

// HandleUpdate changes a collaborator's edit permission.
//
// HTTP: PATCH /api/v1/todo/lists/{listId}/collaborators/{userId}
// Guard: OWNER tier on {listId}
// BODY: {"canEdit": false}
func (h *CollaboratorHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req collaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}
	if req.CanEdit == nil {
		writeError(w, apperror.ValidationFailed("canEdit", "canEdit is required"))
		return
	}

	collab, err := h.collabs.Update(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "userId"), *req.CanEdit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collab)
}

// HandleRemove unshares the list from a user.
//
// HTTP: DELETE /api/v1/todo/lists/{listId}/collaborators/{userId}
// Guard: OWNER tier on {listId}
func (h *CollaboratorHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.collabs.Remove(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "userId")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
