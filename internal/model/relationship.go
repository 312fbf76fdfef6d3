package model

import "time"

// Tier is the effective permission level a user holds on a list.
//
// The database stores two independent booleans (is_owner, is_editable) —
// that's the historical schema. Working with raw boolean pairs makes every
// permission check a combination puzzle, so we collapse them into this closed
// set once, when a Relationship is loaded. Switches over Tier are exhaustive;
// there is no fourth value to forget.
type Tier int

const (
	TierViewer Tier = iota // may read, nothing else
	TierEditor             // may read and modify content
	TierOwner              // full control, including collaborator management and deletion
)

// String implements fmt.Stringer for log output.
func (t Tier) String() string {
	switch t {
	case TierOwner:
		return "owner"
	case TierEditor:
		return "editor"
	default:
		return "viewer"
	}
}

// Relationship is the permission record binding a user to a list.
//
// Invariants:
//   - at most one row per (UserID, ListID) pair
//   - exactly one row per list has IsOwner=true, created with the list
//   - IsOwner is immutable; only IsEditable changes after creation
//   - a user with no row for a list has no access at all, not even read
type Relationship struct {
	ID         string    `json:"id"         db:"id"`
	UserID     string    `json:"userId"     db:"user_id"`
	ListID     string    `json:"listId"     db:"list_id"`
	IsOwner    bool      `json:"isOwner"    db:"is_owner"`
	IsEditable bool      `json:"isEditable" db:"is_editable"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}

// Tier collapses the stored boolean pair into the closed Tier variant.
// Ownership wins regardless of IsEditable: an owner always has edit rights.
func (r *Relationship) Tier() Tier {
	switch {
	case r.IsOwner:
		return TierOwner
	case r.IsEditable:
		return TierEditor
	default:
		return TierViewer
	}
}
