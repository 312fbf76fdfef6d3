package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/auth"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

const (
	MaxListNameLength        = 100
	MaxListDescriptionLength = 1000
	DefaultListLimit         = 20
	MaxListLimit             = 100
)

// ListService handles todo list CRUD plus the ownership bookkeeping that
// the authorization engine reads back later: creating a list also records
// the creator as its owner in the relationships table.
//
// Note what is NOT here: no permission checks. Those happen in the guard
// middleware before a request ever reaches this service. By the time Update
// or Delete runs, the caller's tier has already been verified.
type ListService struct {
	lists  repository.ListRepository
	rels   repository.RelationshipRepository
	logger *slog.Logger
}

// NewListService creates a ListService.
func NewListService(
	lists repository.ListRepository,
	rels repository.RelationshipRepository,
	logger *slog.Logger,
) *ListService {
	return &ListService{
		lists:  lists,
		rels:   rels,
		logger: logger,
	}
}

// Create validates and saves a new list, then records the caller as its
// owner (IsOwner and IsEditable both true — owners can always edit).
//
// With no principal on the context the list is created without an owner
// row. Nothing in the HTTP surface reaches this branch — the route sits
// behind RequireSession — but internal callers (seeding, tests) may create
// unowned lists, which no authenticated user can then access.
func (s *ListService) Create(ctx context.Context, name, description string) (*model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "list name is required")
	}
	if utf8.RuneCountInString(name) > MaxListNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("list name must be %d characters or less", MaxListNameLength))
	}
	if utf8.RuneCountInString(description) > MaxListDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxListDescriptionLength))
	}

	list := &model.List{
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("service/list: creating list: %w", err)
	}

	if principal, ok := auth.PrincipalFromContext(ctx); ok {
		rel := &model.Relationship{
			UserID:     principal.UserID,
			ListID:     list.ID,
			IsOwner:    true,
			IsEditable: true,
		}
		if err := s.rels.Save(ctx, rel); err != nil {
			return nil, fmt.Errorf("service/list: recording owner of list %s: %w", list.ID, err)
		}
		s.logger.Info("list created",
			slog.String("listID", list.ID),
			slog.String("ownerID", principal.UserID),
		)
	} else {
		s.logger.Warn("list created without an owner", slog.String("listID", list.ID))
	}

	return list, nil
}

// GetAll returns the lists visible to the caller, newest first.
//
// Visibility is relationship-scoped: an authenticated caller sees exactly
// the lists they own or collaborate on. A caller with no accessible lists
// gets an empty page, not an error. Without a principal every list is
// returned — the same permissive fallback the access engine uses.
func (s *ListService) GetAll(ctx context.Context, limit, offset int) ([]model.List, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	opts := repository.ListOptions{Limit: limit, Offset: offset}

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		lists, err := s.lists.ListAll(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("service/list: listing lists: %w", err)
		}
		return lists, nil
	}

	rels, err := s.rels.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("service/list: listing relationships for user %s: %w", principal.UserID, err)
	}

	ids := make([]string, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.ListID)
	}

	lists, err := s.lists.ListByIDs(ctx, ids, opts)
	if err != nil {
		return nil, fmt.Errorf("service/list: listing lists for user %s: %w", principal.UserID, err)
	}
	return lists, nil
}

// Get retrieves a single list by ID.
// Returns apperror.ErrNotFound if the list doesn't exist.
func (s *ListService) Get(ctx context.Context, id string) (*model.List, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "list ID is required")
	}
	return s.lists.GetByID(ctx, id)
}

// Update applies a partial update: nil fields keep their current value.
// A non-nil empty description clears it; a non-nil empty name is rejected.
func (s *ListService) Update(ctx context.Context, id string, name, description *string) (*model.List, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "list ID is required")
	}

	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperror.ValidationFailed("name", "list name is required")
		}
		if utf8.RuneCountInString(trimmed) > MaxListNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("list name must be %d characters or less", MaxListNameLength))
		}
		list.Name = trimmed
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if utf8.RuneCountInString(trimmed) > MaxListDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxListDescriptionLength))
		}
		list.Description = trimmed
	}

	if err := s.lists.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("service/list: updating list %s: %w", id, err)
	}

	s.logger.Info("list updated", slog.String("listID", list.ID))
	return list, nil
}

// Delete removes a list. Its items and relationship rows go with it via the
// repository's cascading foreign keys.
func (s *ListService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "list ID is required")
	}

	if err := s.lists.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("list deleted", slog.String("listID", id))
	return nil
}
