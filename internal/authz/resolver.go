package authz

import (
	"context"
	"fmt"

	"github.com/tanvir/listhub/internal/repository"
)

// Resolver maps a resource identifier to the ID of the list that owns it.
type Resolver struct {
	items repository.ItemRepository
}

// NewResolver creates a Resolver. Only item-kind resolution touches storage.
func NewResolver(items repository.ItemRepository) *Resolver {
	return &Resolver{items: items}
}

// ResolveListID returns the owning list's ID for the given resource.
//
// For KindList the ID is returned unchanged — no lookup, a list owns itself.
// For KindItem the item is fetched and its parent list ID returned. A missing
// item propagates the repository's apperror.ErrNotFound untouched: callers
// must be able to answer 404 rather than 403, so "no such item" must stay
// distinguishable from "access denied".
func (r *Resolver) ResolveListID(ctx context.Context, resourceID string, kind ResourceKind) (string, error) {
	switch kind {
	case KindList:
		return resourceID, nil
	case KindItem:
		item, err := r.items.GetByID(ctx, resourceID)
		if err != nil {
			return "", err
		}
		return item.ListID, nil
	default:
		return "", fmt.Errorf("authz: unknown resource kind %d", kind)
	}
}
