package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

// Items returns a view of db that satisfies repository.ItemRepository.
func (db *DB) Items() repository.ItemRepository { return (*itemRepo)(db) }

type itemRepo DB

var _ repository.ItemRepository = (*itemRepo)(nil)

func (db *itemRepo) Create(ctx context.Context, item *model.Item) error {
	item.ID = xid.New().String()

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO items (id, list_id, name, text, due_date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.ListID,
		item.Name,
		item.Text,
		item.DueDate,
		item.Status,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating item: %w", err)
	}

	return nil
}

// GetByID fetches an item by ID alone — the permission resolver uses this to
// map an item to its parent list before any access decision is made.
func (db *itemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	return db.getItem(ctx, `id = ?`, id)
}

// GetByListAndID fetches an item scoped to a list, so an item ID from one
// list can't be read through another list's URL.
func (db *itemRepo) GetByListAndID(ctx context.Context, listID, id string) (*model.Item, error) {
	return db.getItem(ctx, `id = ? AND list_id = ?`, id, listID)
}

func (db *itemRepo) getItem(ctx context.Context, where string, args ...any) (*model.Item, error) {
	var it model.Item

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, list_id, name, text, due_date, status, created_at, updated_at
		 FROM items WHERE `+where,
		args...,
	).Scan(
		&it.ID,
		&it.ListID,
		&it.Name,
		&it.Text,
		&it.DueDate,
		&it.Status,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("item", fmt.Sprint(args[0]))
		}
		return nil, fmt.Errorf("sqlite: getting item %v: %w", args[0], err)
	}

	return &it, nil
}

// List retrieves the items of a list, optionally filtered by status and
// due-date range, newest first.
func (db *itemRepo) List(ctx context.Context, listID string, filter repository.ItemFilter, opts repository.ListOptions) ([]model.Item, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, list_id, name, text, due_date, status, created_at, updated_at
		 FROM items WHERE list_id = ?`
	args := []any{listID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.DueDateFrom != nil {
		query += ` AND due_date >= ?`
		args = append(args, *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query += ` AND due_date <= ?`
		args = append(args, *filter.DueDateTo)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items for list %s: %w", listID, err)
	}
	defer rows.Close()

	items := make([]model.Item, 0, limit)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(
			&it.ID, &it.ListID, &it.Name, &it.Text,
			&it.DueDate, &it.Status, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}

	return items, nil
}

// Update modifies an item's mutable fields. The list_id is immutable and
// excluded from the SET clause.
func (db *itemRepo) Update(ctx context.Context, item *model.Item) error {
	item.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE items
		 SET name = ?, text = ?, due_date = ?, status = ?, updated_at = ?
		 WHERE id = ? AND list_id = ?`,
		item.Name,
		item.Text,
		item.DueDate,
		item.Status,
		item.UpdatedAt,
		item.ID,
		item.ListID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating item %s: %w", item.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("item", item.ID)
	}

	return nil
}

// Delete removes an item, scoped to its list.
func (db *itemRepo) Delete(ctx context.Context, listID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND list_id = ?`, id, listID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting item %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("item", id)
	}

	return nil
}
