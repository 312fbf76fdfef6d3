package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

// Collaborator is the outward view of a sharing relationship: the
// relationship row joined with the user it points at. Owners are never
// reported as collaborators.
type Collaborator struct {
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
	IsEditable bool   `json:"isEditable"`
}

// CollaboratorService manages who shares a list and at what tier.
//
// The add/update/remove operations only ever touch non-owner rows: the
// owner flag is set once, when ListService.Create records the creator, and
// no collaborator operation can grant or revoke it. Route guards restrict
// these mutations to the list's owner.
type CollaboratorService struct {
	rels   repository.RelationshipRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewCollaboratorService creates a CollaboratorService.
func NewCollaboratorService(
	rels repository.RelationshipRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *CollaboratorService {
	return &CollaboratorService{
		rels:   rels,
		users:  users,
		logger: logger,
	}
}

// List returns the collaborators of a list — every non-owner relationship,
// joined with the user's name and email.
func (s *CollaboratorService) List(ctx context.Context, listID string) ([]Collaborator, error) {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return nil, apperror.ValidationFailed("listId", "list ID is required")
	}

	rels, err := s.rels.ListCollaborators(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("service/collaborator: listing collaborators of list %s: %w", listID, err)
	}

	out := make([]Collaborator, 0, len(rels))
	for _, rel := range rels {
		user, err := s.users.GetByID(ctx, rel.UserID)
		if err != nil {
			// A relationship row pointing at a deleted user. The foreign keys
			// should make this impossible; treat it as corruption, not a 404.
			s.logger.Error("collaborator row references missing user",
				slog.String("listID", listID),
				slog.String("userID", rel.UserID),
				slog.String("error", err.Error()),
			)
			return nil, apperror.Internal("collaborator references unknown user")
		}
		out = append(out, Collaborator{
			UserID:     user.ID,
			UserName:   user.Name,
			UserEmail:  user.Email,
			IsEditable: rel.IsEditable,
		})
	}

	return out, nil
}

// Add shares a list with a user at the given tier (canEdit true → editor,
// false → viewer).
//
// The user must exist, and must not already have a relationship to the
// list — including ownership, so an owner can't be demoted by re-adding
// themselves as a collaborator.
func (s *CollaboratorService) Add(ctx context.Context, listID, userID string, canEdit bool) (*Collaborator, error) {
	listID = strings.TrimSpace(listID)
	userID = strings.TrimSpace(userID)
	if listID == "" {
		return nil, apperror.ValidationFailed("listId", "list ID is required")
	}
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("userId",
				fmt.Sprintf("user not found with id %s", userID))
		}
		return nil, fmt.Errorf("service/collaborator: fetching user %s: %w", userID, err)
	}

	exists, err := s.rels.ExistsByUserAndList(ctx, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("service/collaborator: checking existing relationship: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("collaborator", userID)
	}

	rel := &model.Relationship{
		UserID:     userID,
		ListID:     listID,
		IsOwner:    false,
		IsEditable: canEdit,
	}
	if err := s.rels.Save(ctx, rel); err != nil {
		return nil, fmt.Errorf("service/collaborator: adding collaborator %s to list %s: %w", userID, listID, err)
	}

	s.logger.Info("collaborator added",
		slog.String("listID", listID),
		slog.String("userID", userID),
		slog.Bool("canEdit", canEdit),
	)

	return &Collaborator{
		UserID:     user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		IsEditable: rel.IsEditable,
	}, nil
}

// Update changes a collaborator's edit flag. The owner flag is never
// touched here; UpdateEditable leaves is_owner out of its SET clause.
func (s *CollaboratorService) Update(ctx context.Context, listID, userID string, canEdit bool) (*Collaborator, error) {
	listID = strings.TrimSpace(listID)
	userID = strings.TrimSpace(userID)
	if listID == "" {
		return nil, apperror.ValidationFailed("listId", "list ID is required")
	}
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	rel, err := s.rels.UpdateEditable(ctx, userID, listID, canEdit)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/collaborator: fetching user %s: %w", userID, err)
	}

	s.logger.Info("collaborator updated",
		slog.String("listID", listID),
		slog.String("userID", userID),
		slog.Bool("canEdit", canEdit),
	)

	return &Collaborator{
		UserID:     user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		IsEditable: rel.IsEditable,
	}, nil
}

// Remove unshares a list from a user.
// Returns apperror.ErrNotFound if no relationship exists.
func (s *CollaboratorService) Remove(ctx context.Context, listID, userID string) error {
	listID = strings.TrimSpace(listID)
	userID = strings.TrimSpace(userID)
	if listID == "" {
		return apperror.ValidationFailed("listId", "list ID is required")
	}
	if userID == "" {
		return apperror.ValidationFailed("userId", "user ID is required")
	}

	if err := s.rels.DeleteByUserAndList(ctx, userID, listID); err != nil {
		return err
	}

	s.logger.Info("collaborator removed",
		slog.String("listID", listID),
		slog.String("userID", userID),
	)
	return nil
}
