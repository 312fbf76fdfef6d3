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

// Lists returns a view of db that satisfies repository.ListRepository.
func (db *DB) Lists() repository.ListRepository { return (*listRepo)(db) }

type listRepo DB

var _ repository.ListRepository = (*listRepo)(nil)

// Create inserts a new list.
//
// ID GENERATION WITH xid:
// xid generates globally unique IDs that are 20 chars, URL-safe, and sortable
// by creation time (they start with a timestamp). That URL-safety matters
// here: list IDs travel in URL paths, so no escaping is ever needed.
func (db *listRepo) Create(ctx context.Context, list *model.List) error {
	list.ID = xid.New().String()

	now := time.Now()
	list.CreatedAt = now
	list.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO lists (id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		list.ID,
		list.Name,
		list.Description,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating list: %w", err)
	}

	return nil
}

// GetByID retrieves a single list by its ID.
// Returns apperror.ErrNotFound if the list doesn't exist.
func (db *listRepo) GetByID(ctx context.Context, id string) (*model.List, error) {
	var l model.List

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM lists WHERE id = ?`,
		id,
	).Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("list", id)
		}
		return nil, fmt.Errorf("sqlite: getting list %s: %w", id, err)
	}

	return &l, nil
}

// ExistsByID reports whether a list with the given ID exists.
// The access decision engine calls this on every check, so it's a single
// indexed COUNT rather than a full row fetch.
func (db *listRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lists WHERE id = ?`, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking list %s exists: %w", id, err)
	}
	return count > 0, nil
}

// ListAll retrieves every list, newest first, with limit/offset pagination.
// Only reachable from an unauthenticated security context — the list service
// scopes authenticated callers through ListByIDs.
func (db *listRepo) ListAll(ctx context.Context, opts repository.ListOptions) ([]model.List, error) {
	limit, offset := clampPage(opts)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM lists
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lists: %w", err)
	}
	return scanLists(rows, limit)
}

// ListByIDs retrieves the lists whose IDs appear in ids, newest first, with
// limit/offset pagination. An empty ids slice returns an empty result — the
// caller (list service) uses that for users with no accessible lists.
func (db *listRepo) ListByIDs(ctx context.Context, ids []string, opts repository.ListOptions) ([]model.List, error) {
	if len(ids) == 0 {
		return []model.List{}, nil
	}

	limit, offset := clampPage(opts)

	// database/sql has no native slice binding, so build the placeholder list
	// by hand. The values still go through ? parameters — never concatenated.
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+2)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM lists
		 WHERE id IN (`+placeholders+`)
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lists: %w", err)
	}
	return scanLists(rows, limit)
}

// clampPage normalizes pagination options to sane bounds: default page size
// 20, hard cap 100, never a negative offset.
func clampPage(opts repository.ListOptions) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func scanLists(rows *sql.Rows, capacity int) ([]model.List, error) {
	defer rows.Close()

	lists := make([]model.List, 0, capacity)
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning list row: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lists: %w", err)
	}

	return lists, nil
}

// Update modifies an existing list's name and description.
func (db *listRepo) Update(ctx context.Context, list *model.List) error {
	list.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE lists SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		list.Name,
		list.Description,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating list %s: %w", list.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list", list.ID)
	}

	return nil
}

// Delete removes a list. Items and relationship rows go with it via the
// ON DELETE CASCADE foreign keys set up in migrate().
func (db *listRepo) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM lists WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting list %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list", id)
	}

	return nil
}
