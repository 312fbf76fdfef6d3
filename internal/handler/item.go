package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
	"github.com/tanvir/listhub/internal/service"
)

// ItemHandler manages todo items nested under a list. Every route carries a
// {listId}; the router's guard checks the caller's tier against that list
// before the request reaches these methods.
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

// itemRequest covers both create and update. Due dates are date-only
// strings ("2026-09-15"); see parseDueDate.
type itemRequest struct {
	Name    *string `json:"name"`
	Text    *string `json:"text"`
	DueDate *string `json:"dueDate"`
	Status  *string `json:"status"`
}

// parseDueDate accepts a date-only string and, for lenient clients, a full
// RFC 3339 timestamp. Returns a validation error for anything else.
func parseDueDate(raw string) (*time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	return nil, apperror.ValidationFailed("dueDate", "dueDate must be a date like 2026-09-15")
}

// HandleCreate adds an item to a list.
//
// HTTP: POST /api/v1/todo/lists/{listId}/items
// Guard: EDIT tier on {listId}
// BODY: {"name": "...", "text": "...", "dueDate": "2026-09-15", "status": "todo"}
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	in := service.ItemInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Text != nil {
		in.Text = *req.Text
	}
	if req.Status != nil {
		in.Status = model.ItemStatus(*req.Status)
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			writeError(w, err)
			return
		}
		in.DueDate = due
	}

	item, err := h.items.Create(r.Context(), chi.URLParam(r, "listId"), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// HandleList returns a list's items, filtered and paginated.
//
// HTTP: GET /api/v1/todo/lists/{listId}/items?status=todo&dueDateFrom=2026-01-01&dueDateTo=2026-12-31&limit=20&offset=0
// Guard: READ tier on {listId}
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.ItemFilter{
		Status: model.ItemStatus(q.Get("status")),
	}
	if raw := q.Get("dueDateFrom"); raw != "" {
		from, err := parseDueDate(raw)
		if err != nil {
			writeError(w, apperror.ValidationFailed("dueDateFrom", "dueDateFrom must be a date like 2026-01-01"))
			return
		}
		filter.DueDateFrom = from
	}
	if raw := q.Get("dueDateTo"); raw != "" {
		to, err := parseDueDate(raw)
		if err != nil {
			writeError(w, apperror.ValidationFailed("dueDateTo", "dueDateTo must be a date like 2026-12-31"))
			return
		}
		filter.DueDateTo = to
	}
	limit, offset := parseLimitOffset(r)

	items, err := h.items.List(r.Context(), chi.URLParam(r, "listId"), filter, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleGet returns one item.
//
// HTTP: GET /api/v1/todo/lists/{listId}/items/{id}
// Guard: READ tier on {listId}
func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// HandleUpdate applies a partial update to an item.
//
// HTTP: PUT /api/v1/todo/lists/{listId}/items/{id}
// Guard: EDIT tier on {listId}
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	patch := service.ItemPatch{
		Name: req.Name,
		Text: req.Text,
	}
	if req.Status != nil {
		status := model.ItemStatus(*req.Status)
		patch.Status = &status
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.DueDate = due
	}

	item, err := h.items.Update(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// HandleDelete removes an item.
//
// HTTP: DELETE /api/v1/todo/lists/{listId}/items/{id}
// Guard: EDIT tier on {listId}
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
