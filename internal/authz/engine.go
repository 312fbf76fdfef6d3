package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/auth"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

// Engine is the access decision point. CheckAccess returning nil means
// allow; a returned error is either a denial (apperror.ErrForbidden with the
// reason as its message) or a hard failure that is NOT a permission boundary.
//
// Every check re-reads the relationship store — no in-process caching of
// decisions. Permission rows change rarely compared to how often they are
// read, and a read-committed view is all that's required: a collaborator
// removed microseconds ago may win one more read, which is acceptable absent
// real-time revocation guarantees.
type Engine struct {
	users  repository.UserRepository
	lists  repository.ListRepository
	rels   repository.RelationshipRepository
	logger *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(
	users repository.UserRepository,
	lists repository.ListRepository,
	rels repository.RelationshipRepository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		users:  users,
		lists:  lists,
		rels:   rels,
		logger: logger,
	}
}

// CheckAccess decides whether the principal in ctx may act on listID at the
// required level.
//
// The decision sequence:
//
//  1. No principal in the context → allow. This supports unauthenticated
//     contexts (tests, internal calls); in the deployed router every guarded
//     route sits behind auth.RequireSession, so no anonymous request reaches
//     this point.
//  2. Principal present but not in the user store → hard internal error. An
//     authenticated identity that doesn't resolve is an inconsistent security
//     context, not a permission boundary — never surface it as a denial.
//  3. Target list doesn't exist → allow. The operation behind the guard is
//     expected to fail with its own not-found; the engine does not
//     manufacture a permission error for a resource that never existed.
//  4. No relationship row for (principal, list) → deny.
//  5. Otherwise compare the row's tier against the requirement. Ownership
//     satisfies everything; editable satisfies edit and read; a bare
//     relationship satisfies read only.
func (e *Engine) CheckAccess(ctx context.Context, listID string, level AccessLevel) error {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil
	}

	user, err := e.users.GetByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			e.logger.Error("authenticated principal missing from user store",
				slog.String("email", principal.Email),
			)
			return apperror.Internal("security context references unknown user")
		}
		return fmt.Errorf("authz: resolving principal %s: %w", principal.Email, err)
	}

	exists, err := e.lists.ExistsByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("authz: checking list %s: %w", listID, err)
	}
	if !exists {
		return nil
	}

	rel, err := e.rels.GetByUserAndList(ctx, user.ID, listID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			e.logger.Debug("access denied: no relationship",
				slog.String("userID", user.ID),
				slog.String("listID", listID),
			)
			return apperror.Forbidden("no relationship to resource")
		}
		return fmt.Errorf("authz: loading relationship (user=%s, list=%s): %w", user.ID, listID, err)
	}

	return checkTier(rel.Tier(), level)
}

// checkTier compares the held tier against the required level. The switch is
// exhaustive over the closed Tier variant — there is no boolean combination
// left to mis-handle.
func checkTier(held model.Tier, level AccessLevel) error {
	switch level {
	case LevelRead:
		// A relationship of any tier grants read.
		return nil
	case LevelEdit:
		switch held {
		case model.TierOwner, model.TierEditor:
			return nil
		case model.TierViewer:
			return apperror.Forbidden("read-only access")
		}
	case LevelOwner:
		switch held {
		case model.TierOwner:
			return nil
		case model.TierEditor, model.TierViewer:
			return apperror.Forbidden("owner-only operation")
		}
	}
	return fmt.Errorf("authz: unknown access level %d", level)
}
