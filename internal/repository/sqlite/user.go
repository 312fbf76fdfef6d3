package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

// Users returns a view of db that satisfies repository.UserRepository.
//
// ONE POOL, FOUR REPOSITORIES:
// All four repository interfaces are backed by the same *sql.DB pool. Each
// entity gets its own method-set alias (`type userRepo DB`) so that Create,
// GetByID and friends keep their natural names without colliding across
// entities on a single receiver. The conversion is free — the alias shares
// the underlying struct.
func (db *DB) Users() repository.UserRepository { return (*userRepo)(db) }

type userRepo DB

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately instead of at
// the first call site. One line of insurance per interface.
var _ repository.UserRepository = (*userRepo)(nil)

// Create inserts a new user. The email carries a UNIQUE constraint, so a
// second signup with the same address surfaces as apperror.ErrConflict.
func (db *userRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, email_verified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations as plain errors;
		// match on the message to translate the unique-email case.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id = ?`, id)
}

// GetByEmail retrieves a user by email — the credential lookup used by login
// and by the access decision engine to resolve the acting principal.
func (db *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `email = ?`, email)
}

func (db *userRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, email_verified, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// MarkEmailVerified flips the email_verified flag for a user.
// Returns apperror.ErrNotFound if the user doesn't exist.
func (db *userRepo) MarkEmailVerified(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking user %s verified: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
