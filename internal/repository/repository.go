package repository

import (
	"context"
	"time"

	"github.com/tanvir/listhub/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// ItemFilter narrows an item listing. Zero values mean "no filter".
type ItemFilter struct {
	Status      model.ItemStatus
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	MarkEmailVerified(ctx context.Context, id string) error
}

type ListRepository interface {
	Create(ctx context.Context, list *model.List) error
	GetByID(ctx context.Context, id string) (*model.List, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context, opts ListOptions) ([]model.List, error)
	ListByIDs(ctx context.Context, ids []string, opts ListOptions) ([]model.List, error)
	Update(ctx context.Context, list *model.List) error
	Delete(ctx context.Context, id string) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	GetByListAndID(ctx context.Context, listID, id string) (*model.Item, error)
	List(ctx context.Context, listID string, filter ItemFilter, opts ListOptions) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, listID, id string) error
}

type RelationshipRepository interface {
	Save(ctx context.Context, rel *model.Relationship) error
	GetByUserAndList(ctx context.Context, userID, listID string) (*model.Relationship, error)
	ExistsByUserAndList(ctx context.Context, userID, listID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.Relationship, error)
	// ListCollaborators returns the non-owner rows for a list.
	ListCollaborators(ctx context.Context, listID string) ([]model.Relationship, error)
	UpdateEditable(ctx context.Context, userID, listID string, editable bool) (*model.Relationship, error)
	DeleteByUserAndList(ctx context.Context, userID, listID string) error
}
