package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/service"
)

// ListHandler manages todo list CRUD.
//
// Access control is not handled here: the router wraps every {id} route in
// the authz guard, so by the time these methods run the caller's tier has
// already been checked. The handlers only parse, delegate, and respond.
type ListHandler struct {
	lists  *service.ListService
	logger *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists *service.ListService, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

// listRequest covers both create and update. Pointer fields distinguish
// "absent" from "empty" for updates; create requires Name to be present.
type listRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// parseLimitOffset reads ?limit= and ?offset= query parameters. Absent or
// junk values come back as zero; the service applies defaults and caps.
func parseLimitOffset(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

// HandleCreate creates a list owned by the caller.
//
// HTTP: POST /api/v1/todo/lists
// BODY: {"name": "...", "description": "..."}
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	var name, description string
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}

	list, err := h.lists.Create(r.Context(), name, description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

// HandleGetAll returns the lists visible to the caller.
//
// HTTP: GET /api/v1/todo/lists?limit=20&offset=0
//
// The response is always a JSON array, never null — an empty page encodes
// as []. Visibility scoping (own and shared lists only) happens in the
// service.
func (h *ListHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)

	lists, err := h.lists.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if lists == nil {
		lists = []model.List{}
	}

	writeJSON(w, http.StatusOK, lists)
}

// HandleGet returns one list.
//
// HTTP: GET /api/v1/todo/lists/{id}
// Guard: READ tier on {id}
func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleUpdate applies a partial update to a list.
//
// HTTP: PATCH /api/v1/todo/lists/{id}
// Guard: EDIT tier on {id}
// BODY: {"name": "...", "description": "..."} — absent fields keep their value
func (h *ListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	list, err := h.lists.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleDelete removes a list and everything in it.
//
// HTTP: DELETE /api/v1/todo/lists/{id}
// Guard: OWNER tier on {id}
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
