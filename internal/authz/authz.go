// Package authz implements resource-level authorization for lists and items.
//
// Permissions are not attached to the resources themselves. A Relationship
// row binds a user to a list with a tier (owner / editor / viewer), and every
// decision — including decisions about items — resolves transitively to the
// owning list and that row. The package has three parts:
//
//   - Resolver: maps a resource identifier (list or item) to the owning list
//   - Engine:   decides allow/deny for (principal, list, required level)
//   - Guard:    a chi middleware factory that declares the check once per
//     route and runs it before the handler body executes
//
// One declaration per protected route, zero authorization code in handlers.
package authz

// AccessLevel is the tier a protected operation requires.
type AccessLevel int

const (
	// LevelRead — any collaborator (owner or invited) may proceed.
	LevelRead AccessLevel = iota
	// LevelEdit — the owner or an editable collaborator may proceed.
	LevelEdit
	// LevelOwner — only the owner may proceed.
	LevelOwner
)

func (l AccessLevel) String() string {
	switch l {
	case LevelOwner:
		return "owner"
	case LevelEdit:
		return "edit"
	default:
		return "read"
	}
}

// ResourceKind tells the resolver how to map a resource ID to a list ID.
type ResourceKind int

const (
	// KindList — the resource ID is already a list ID.
	KindList ResourceKind = iota
	// KindItem — the resource ID is an item ID; resolve through its parent list.
	KindItem
)

func (k ResourceKind) String() string {
	if k == KindItem {
		return "item"
	}
	return "list"
}
