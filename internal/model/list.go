package model

import "time"

// List is a named collection of todo items.
//
// Note what is NOT here: no owner field, no collaborator slice. Who may see or
// change a list lives entirely in Relationship rows — the list itself carries
// no permission state.
type List struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
