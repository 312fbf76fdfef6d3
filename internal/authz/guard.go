package authz

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/tanvir/listhub/internal/apperror"
)

// Guard builds route middleware that runs an access check before the handler
// body executes.
//
// Each operation declares its requirement once, at route registration: the
// required level, the resource kind, and the URL parameter carrying the
// resource ID —
//
//	r.With(guard.Require(authz.LevelEdit, authz.KindList, "listId")).
//	    Post("/", items.HandleCreate)
//
// — and the handler itself contains no authorization code at all. A
// misdeclared parameter name fails loudly the first time the route is
// exercised.
type Guard struct {
	resolver *Resolver
	engine   *Engine
	logger   *slog.Logger
}

// NewGuard creates a Guard.
func NewGuard(resolver *Resolver, engine *Engine, logger *slog.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		engine:   engine,
		logger:   logger,
	}
}

// Require returns a middleware enforcing the given access level on the
// resource identified by the named chi URL parameter.
//
// Failure modes, in order:
//   - the route pattern has no parameter with that name → 500. That is a
//     programming mistake in the route declaration, not a runtime condition,
//     and it is logged at Error level so it cannot be missed.
//   - the parameter value is not a valid xid → 400.
//   - item-kind resource doesn't exist → 404, distinct from denial.
//   - the engine denies → 403 with the denial reason.
//
// On allow the request proceeds untouched — the check has no side effects.
func (g *Guard) Require(level AccessLevel, kind ResourceKind, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, param)
			if raw == "" {
				g.logger.Error("guard misconfigured: URL parameter not found on route",
					slog.String("param", param),
					slog.String("path", r.URL.Path),
				)
				g.fail(w, apperror.Internal("authorization guard misconfigured"))
				return
			}

			id, err := xid.FromString(raw)
			if err != nil {
				g.fail(w, apperror.ValidationFailed(param, "invalid resource identifier"))
				return
			}

			listID, err := g.resolver.ResolveListID(r.Context(), id.String(), kind)
			if err != nil {
				g.fail(w, err)
				return
			}

			if err := g.engine.CheckAccess(r.Context(), listID, level); err != nil {
				if errors.Is(err, apperror.ErrForbidden) {
					g.logger.Info("access denied",
						slog.String("listID", listID),
						slog.String("level", level.String()),
					)
				}
				g.fail(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// fail aborts the request, translating the error to a status code. The
// mapping mirrors the handler package's writeError; the guard keeps its own
// copy so the middleware stays free of handler imports.
func (g *Guard) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	errorType := "internal_error"
	message := "An internal error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
			message = appErr.Message
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
			message = appErr.Message
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
			message = appErr.Message
		}
	}
	if status == http.StatusInternalServerError {
		g.logger.Error("authorization check failed", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
