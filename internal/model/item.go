package model

import "time"

// ItemStatus is the lifecycle state of a todo item.
type ItemStatus string

const (
	StatusTodo       ItemStatus = "todo"
	StatusInProgress ItemStatus = "in_progress"
	StatusCompleted  ItemStatus = "completed"
	StatusCancelled  ItemStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
// An empty status is also valid — it means "not set".
func (s ItemStatus) Valid() bool {
	switch s {
	case "", StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Item is a single entry in a todo list.
//
// ListID is set at creation and never changes. An item has no permission
// state of its own — authorization always resolves through the parent list.
type Item struct {
	ID        string     `json:"id"                db:"id"`
	ListID    string     `json:"listId"            db:"list_id"`
	Name      string     `json:"name"              db:"name"`
	Text      string     `json:"text"              db:"text"`
	DueDate   *time.Time `json:"dueDate,omitempty" db:"due_date"` // nil = no due date
	Status    ItemStatus `json:"status"            db:"status"`
	CreatedAt time.Time  `json:"createdAt"         db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt"         db:"updated_at"`
}
