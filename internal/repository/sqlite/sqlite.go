// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Perfect for:
// - Single-server deployments (which is most apps, honestly)
// - Development and testing (use ":memory:" for in-memory DB)
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The underscore import is a "side-effect only" import. The sqlite package's
	// init() registers itself with database/sql as a driver named "sqlite", so
	// sql.Open("sqlite", ...) below knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements all repository interfaces
// (users, lists, items, relationships) on a single connection pool.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/listhub.db" → file-based database (persistent)
//   - ":memory:"        → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection: if the pool opened a second
	// connection it would see a brand-new empty database. Cap the pool at one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Ping verifies the connection actually works. Without this, a bad path or
	// permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The cascade from a list to
	// its items and relationship rows depends on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// this is safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			email          TEXT NOT NULL UNIQUE,
			password_hash  TEXT NOT NULL,
			email_verified INTEGER NOT NULL DEFAULT 0,
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS lists (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating lists table: %w", err)
	}

	// ON DELETE CASCADE: deleting a list removes its items automatically.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id         TEXT PRIMARY KEY,
			list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			text       TEXT NOT NULL DEFAULT '',
			due_date   DATETIME,
			status     TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_items_list_id ON items(list_id);
		CREATE INDEX IF NOT EXISTS idx_items_due_date ON items(due_date);
	`)
	if err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	// One row per (user, list) pair — the UNIQUE index enforces the invariant.
	// Cascades alongside items when the list goes away.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS relationships (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			list_id     TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			is_owner    INTEGER NOT NULL DEFAULT 0,
			is_editable INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_relationships_user_list
			ON relationships(user_id, list_id);
		CREATE INDEX IF NOT EXISTS idx_relationships_list_id ON relationships(list_id);
	`)
	if err != nil {
		return fmt.Errorf("creating relationships table: %w", err)
	}

	return nil
}
