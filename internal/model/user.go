// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// The email is the human-facing credential: login, collaborator search, and
// the authorization engine all key on it. It carries a UNIQUE constraint in
// the DB so one address maps to exactly one account.
//
// WHY PasswordHash `json:"-"`?
// The dash tells encoding/json to NEVER serialize this field. Even if a
// handler accidentally returns a full User, the bcrypt hash stays out of the
// response body.
type User struct {
	ID            string    `json:"id"            db:"id"`
	Name          string    `json:"name"          db:"name"`
	Email         string    `json:"email"         db:"email"`
	PasswordHash  string    `json:"-"             db:"password_hash"`
	EmailVerified bool      `json:"emailVerified" db:"email_verified"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt"     db:"updated_at"`
}
