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

// Relationships returns a view of db that satisfies repository.RelationshipRepository.
func (db *DB) Relationships() repository.RelationshipRepository { return (*relationshipRepo)(db) }

type relationshipRepo DB

var _ repository.RelationshipRepository = (*relationshipRepo)(nil)

const relationshipColumns = `id, user_id, list_id, is_owner, is_editable, created_at, updated_at`

// Save inserts a new relationship row. The unique (user_id, list_id) index
// rejects a second row for the same pair — surfaced as apperror.ErrConflict.
func (db *relationshipRepo) Save(ctx context.Context, rel *model.Relationship) error {
	rel.ID = xid.New().String()

	now := time.Now()
	rel.CreatedAt = now
	rel.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO relationships (id, user_id, list_id, is_owner, is_editable, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rel.ID,
		rel.UserID,
		rel.ListID,
		rel.IsOwner,
		rel.IsEditable,
		rel.CreatedAt,
		rel.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("relationship", rel.UserID+"/"+rel.ListID)
		}
		return fmt.Errorf("sqlite: saving relationship (user=%s, list=%s): %w", rel.UserID, rel.ListID, err)
	}

	return nil
}

// GetByUserAndList fetches the single relationship row for a (user, list)
// pair. Returns apperror.ErrNotFound when no row exists — which to the
// access decision engine means "no access at all".
func (db *relationshipRepo) GetByUserAndList(ctx context.Context, userID, listID string) (*model.Relationship, error) {
	var rel model.Relationship

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+relationshipColumns+`
		 FROM relationships WHERE user_id = ? AND list_id = ?`,
		userID, listID,
	).Scan(
		&rel.ID,
		&rel.UserID,
		&rel.ListID,
		&rel.IsOwner,
		&rel.IsEditable,
		&rel.CreatedAt,
		&rel.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("relationship", userID+"/"+listID)
		}
		return nil, fmt.Errorf("sqlite: getting relationship (user=%s, list=%s): %w", userID, listID, err)
	}

	return &rel, nil
}

// ExistsByUserAndList reports whether a relationship row exists for the pair.
func (db *relationshipRepo) ExistsByUserAndList(ctx context.Context, userID, listID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM relationships WHERE user_id = ? AND list_id = ?`,
		userID, listID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking relationship (user=%s, list=%s): %w", userID, listID, err)
	}
	return count > 0, nil
}

// ListByUser returns every relationship row for a user — owner rows included.
// The list service uses this to scope "get all lists" to what the user can see.
func (db *relationshipRepo) ListByUser(ctx context.Context, userID string) ([]model.Relationship, error) {
	return db.listRelationships(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE user_id = ? ORDER BY created_at`,
		userID,
	)
}

// ListCollaborators returns the non-owner rows for a list, i.e. the people
// the owner invited. The owner row is excluded on purpose: collaborator
// listings in the API never include the owner.
func (db *relationshipRepo) ListCollaborators(ctx context.Context, listID string) ([]model.Relationship, error) {
	return db.listRelationships(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE list_id = ? AND is_owner = 0 ORDER BY created_at`,
		listID,
	)
}

func (db *relationshipRepo) listRelationships(ctx context.Context, query string, arg any) ([]model.Relationship, error) {
	rows, err := db.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing relationships: %w", err)
	}
	defer rows.Close()

	rels := []model.Relationship{}
	for rows.Next() {
		var rel model.Relationship
		if err := rows.Scan(
			&rel.ID, &rel.UserID, &rel.ListID,
			&rel.IsOwner, &rel.IsEditable,
			&rel.CreatedAt, &rel.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning relationship row: %w", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating relationships: %w", err)
	}

	return rels, nil
}

// UpdateEditable changes the is_editable flag for a collaborator and returns
// the updated row. is_owner is deliberately absent from the SET clause:
// ownership is fixed at creation and cannot be granted or revoked here.
func (db *relationshipRepo) UpdateEditable(ctx context.Context, userID, listID string, editable bool) (*model.Relationship, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE relationships SET is_editable = ?, updated_at = ?
		 WHERE user_id = ? AND list_id = ?`,
		editable, time.Now(), userID, listID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating relationship (user=%s, list=%s): %w", userID, listID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("relationship", userID+"/"+listID)
	}

	return db.GetByUserAndList(ctx, userID, listID)
}

// DeleteByUserAndList removes a collaborator's relationship row.
func (db *relationshipRepo) DeleteByUserAndList(ctx context.Context, userID, listID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM relationships WHERE user_id = ? AND list_id = ?`,
		userID, listID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting relationship (user=%s, list=%s): %w", userID, listID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("relationship", userID+"/"+listID)
	}

	return nil
}
