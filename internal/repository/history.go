package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taskly_backend/internal/model"
)

type historyRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create appends one audit row.
func (r *historyRepository) Create(ctx context.Context, userID int64, action, text string) error {
	query := `
		INSERT INTO history (user_id, action, text, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, userID, action, text)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// ListByUser returns a user's history, newest first.
func (r *historyRepository) ListByUser(ctx context.Context, userID int64) ([]model.HistoryEntry, error) {
	query := `
		SELECT id, user_id, action, text, created_at
		FROM history
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	entries := []model.HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Delete removes one entry scoped to its owner.
func (r *historyRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return model.ErrHistoryEntryNotFound
	}
	return nil
}

// DeleteAllForUser clears a user's history.
func (r *historyRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
