// Package kv abstracts the key-value store used for ephemeral state —
// currently just the email-verification tokens.
//
// The interface is deliberately tiny: set-with-TTL, get, atomic get-and-delete,
// delete. Expiry is the STORE's job (Redis EX, go-cache per-entry expiry), not
// the application's — callers never compare timestamps.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get and GetDel when the key does not exist,
// whether it was never set, already consumed, or expired. The store cannot
// tell those apart, and callers must not try to.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the ephemeral key-value contract.
//
// GetDel is the load-bearing method: it must be atomic. Two concurrent
// GetDel calls on the same key must yield exactly one value and one
// ErrKeyNotFound — never two values. Single-use token redemption relies on
// this, so a Get followed by a separate Delete is NOT an acceptable
// implementation.
type Store interface {
	// Set stores value under key, expiring after ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// GetDel atomically returns the value for key and removes it,
	// or returns ErrKeyNotFound.
	GetDel(ctx context.Context, key string) (string, error)

	// Delete removes key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}
