package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

const (
	MaxItemNameLength = 255
	MaxItemTextLength = 10000
)

// ItemInput carries the fields for creating an item. DueDate is optional;
// a zero-value Status is stored as-is (items without a status are legal).
type ItemInput struct {
	Name    string
	Text    string
	DueDate *time.Time
	Status  model.ItemStatus
}

// ItemPatch carries a partial update. Nil fields keep their current value,
// mirroring the list update semantics.
type ItemPatch struct {
	Name    *string
	Text    *string
	DueDate *time.Time
	Status  *model.ItemStatus
}

// ItemService handles todo item CRUD within a list.
//
// Every operation takes the parent listID and validates that the list
// exists before touching items, so a request against a vanished list
// yields a list-level NotFound rather than a confusing empty result.
// Access control happened earlier, in the guard middleware.
type ItemService struct {
	items  repository.ItemRepository
	lists  repository.ListRepository
	logger *slog.Logger
}

// NewItemService creates an ItemService.
func NewItemService(
	items repository.ItemRepository,
	lists repository.ListRepository,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		items:  items,
		lists:  lists,
		logger: logger,
	}
}

// Create validates and saves a new item in the given list.
func (s *ItemService) Create(ctx context.Context, listID string, in ItemInput) (*model.Item, error) {
	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "item name is required")
	}
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("item name must be %d characters or less", MaxItemNameLength))
	}
	if utf8.RuneCountInString(in.Text) > MaxItemTextLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("item text must be %d characters or less", MaxItemTextLength))
	}
	if !in.Status.Valid() {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("unknown status %q", in.Status))
	}

	item := &model.Item{
		ListID:  listID,
		Name:    name,
		Text:    strings.TrimSpace(in.Text),
		DueDate: in.DueDate,
		Status:  in.Status,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("service/item: creating item in list %s: %w", listID, err)
	}

	s.logger.Info("item created",
		slog.String("itemID", item.ID),
		slog.String("listID", listID),
	)
	return item, nil
}

// List retrieves the items of a list, filtered and paginated.
// The filter's zero value matches everything.
func (s *ItemService) List(ctx context.Context, listID string, filter repository.ItemFilter, limit, offset int) ([]model.Item, error) {
	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}
	if !filter.Status.Valid() {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("unknown status %q", filter.Status))
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.items.List(ctx, listID, filter, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("service/item: listing items of list %s: %w", listID, err)
	}
	return items, nil
}

// Get retrieves one item, scoped to its list: an item ID that exists under
// a different list still comes back NotFound.
func (s *ItemService) Get(ctx context.Context, listID, id string) (*model.Item, error) {
	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}
	return s.items.GetByListAndID(ctx, listID, id)
}

// Update applies a partial update to an item. The item's list is immutable;
// there is no move operation.
func (s *ItemService) Update(ctx context.Context, listID, id string, patch ItemPatch) (*model.Item, error) {
	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}

	item, err := s.items.GetByListAndID(ctx, listID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "item name is required")
		}
		if utf8.RuneCountInString(name) > MaxItemNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("item name must be %d characters or less", MaxItemNameLength))
		}
		item.Name = name
	}
	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if utf8.RuneCountInString(text) > MaxItemTextLength {
			return nil, apperror.ValidationFailed("text",
				fmt.Sprintf("item text must be %d characters or less", MaxItemTextLength))
		}
		item.Text = text
	}
	if patch.DueDate != nil {
		item.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperror.ValidationFailed("status",
				fmt.Sprintf("unknown status %q", *patch.Status))
		}
		item.Status = *patch.Status
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("service/item: updating item %s: %w", id, err)
	}

	s.logger.Info("item updated",
		slog.String("itemID", item.ID),
		slog.String("listID", listID),
	)
	return item, nil
}

// Delete removes an item from a list.
func (s *ItemService) Delete(ctx context.Context, listID, id string) error {
	if err := s.requireList(ctx, listID); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, listID, id); err != nil {
		return err
	}

	s.logger.Info("item deleted",
		slog.String("itemID", id),
		slog.String("listID", listID),
	)
	return nil
}

func (s *ItemService) requireList(ctx context.Context, listID string) error {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return apperror.ValidationFailed("listId", "list ID is required")
	}
	exists, err := s.lists.ExistsByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("service/item: checking list %s: %w", listID, err)
	}
	if !exists {
		return apperror.NotFound("list", listID)
	}
	return nil
}
