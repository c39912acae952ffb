package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lifestats/lifestats/internal/model"
)

// Common errors for metric entry repository operations.
var (
	ErrEntryNotFound = errors.New("metric entry not found")
)

// CreateEntry inserts a new metric entry.
func (r *Repository) CreateEntry(ctx context.Context, entry *model.MetricEntry) error {
	query := `
		INSERT INTO metric_entries (id, user_id, metric_key, value, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.MetricKey,
		entry.Value,
		entry.Timestamp,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create metric entry: %w", err)
	}

	return nil
}

// ListEntriesInRange retrieves a user's entries with from <= timestamp < to,
// ordered by timestamp ascending. Used by the aggregation service.
func (r *Repository) ListEntriesInRange(ctx context.Context, userID string, from, to time.Time) ([]*model.MetricEntry, error) {
	query := `
		SELECT id, user_id, metric_key, value, timestamp, created_at
		FROM metric_entries
		WHERE user_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp
	`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListRecentEntries retrieves the user's most recent entries, newest first.
func (r *Repository) ListRecentEntries(ctx context.Context, userID string, limit int) ([]*model.MetricEntry, error) {
	query := `
		SELECT id, user_id, metric_key, value, timestamp, created_at
		FROM metric_entries
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetEntryByID retrieves a single entry scoped to its owner.
func (r *Repository) GetEntryByID(ctx context.Context, id, userID string) (*model.MetricEntry, error) {
	query := `
		SELECT id, user_id, metric_key, value, timestamp, created_at
		FROM metric_entries
		WHERE id = $1 AND user_id = $2
	`

	var entry model.MetricEntry
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.MetricKey,
		&entry.Value,
		&entry.Timestamp,
		&entry.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get metric entry: %w", err)
	}

	return &entry, nil
}

// DeleteEntry removes an entry scoped to its owner.
func (r *Repository) DeleteEntry(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM metric_entries
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete metric entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// collectEntries scans all rows into MetricEntry models.
func collectEntries(rows pgx.Rows) ([]*model.MetricEntry, error) {
	var entries []*model.MetricEntry
	for rows.Next() {
		var entry model.MetricEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.MetricKey,
			&entry.Value,
			&entry.Timestamp,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric entries: %w", err)
	}

	return entries, nil
}
