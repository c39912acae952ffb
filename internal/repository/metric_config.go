package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lifestats/lifestats/internal/model"
)

// Common errors for metric config repository operations.
var (
	ErrConfigNotFound  = errors.New("metric config not found")
	ErrMetricKeyExists = errors.New("metric key already configured for user")
)

const configColumns = `id, user_id, metric_key, metric_name, unit, type, goal, default_goal, is_active, created_at, updated_at`

// CreateConfig inserts a new per-user metric config.
// metric_key is unique per user.
func (r *Repository) CreateConfig(ctx context.Context, cfg *model.MetricConfig) error {
	query := `
		INSERT INTO metric_configs (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		cfg.ID,
		cfg.UserID,
		cfg.MetricKey,
		cfg.MetricName,
		cfg.Unit,
		cfg.Type,
		cfg.Goal,
		cfg.DefaultGoal,
		cfg.IsActive,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrMetricKeyExists
		}
		return fmt.Errorf("failed to create metric config: %w", err)
	}

	return nil
}

// InsertDefaultConfigs seeds the default metric set for a new user in one batch.
func (r *Repository) InsertDefaultConfigs(ctx context.Context, configs []*model.MetricConfig) error {
	if len(configs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO metric_configs (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, metric_key) DO NOTHING
	`

	for _, cfg := range configs {
		batch.Queue(query,
			cfg.ID,
			cfg.UserID,
			cfg.MetricKey,
			cfg.MetricName,
			cfg.Unit,
			cfg.Type,
			cfg.Goal,
			cfg.DefaultGoal,
			cfg.IsActive,
			cfg.CreatedAt,
			cfg.UpdatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(configs); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert config %d: %w", i, err)
		}
	}

	return nil
}

// ListConfigs retrieves a user's metric configs filtered by active state.
func (r *Repository) ListConfigs(ctx context.Context, userID string, active bool) ([]*model.MetricConfig, error) {
	query := `
		SELECT ` + configColumns + `
		FROM metric_configs
		WHERE user_id = $1 AND is_active = $2
		ORDER BY metric_key
	`

	rows, err := r.pool.Query(ctx, query, userID, active)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric configs: %w", err)
	}
	defer rows.Close()

	return collectConfigs(rows)
}

// GetConfigByKey retrieves a user's config for a metric key.
func (r *Repository) GetConfigByKey(ctx context.Context, userID, metricKey string) (*model.MetricConfig, error) {
	query := `
		SELECT ` + configColumns + `
		FROM metric_configs
		WHERE user_id = $1 AND metric_key = $2
	`

	var cfg model.MetricConfig
	err := r.pool.QueryRow(ctx, query, userID, metricKey).Scan(
		&cfg.ID,
		&cfg.UserID,
		&cfg.MetricKey,
		&cfg.MetricName,
		&cfg.Unit,
		&cfg.Type,
		&cfg.Goal,
		&cfg.DefaultGoal,
		&cfg.IsActive,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to get metric config: %w", err)
	}

	return &cfg, nil
}

// UpdateConfig updates display metadata, type, goal and active state.
func (r *Repository) UpdateConfig(ctx context.Context, cfg *model.MetricConfig) error {
	query := `
		UPDATE metric_configs
		SET metric_name = $3, unit = $4, type = $5, goal = $6, is_active = $7, updated_at = $8
		WHERE user_id = $1 AND metric_key = $2
	`

	result, err := r.pool.Exec(ctx, query,
		cfg.UserID,
		cfg.MetricKey,
		cfg.MetricName,
		cfg.Unit,
		cfg.Type,
		cfg.Goal,
		cfg.IsActive,
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to update metric config: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrConfigNotFound
	}

	return nil
}

// SetConfigGoal updates only the goal target for a metric key.
func (r *Repository) SetConfigGoal(ctx context.Context, userID, metricKey string, goal float64) error {
	query := `
		UPDATE metric_configs
		SET goal = $3, updated_at = $4
		WHERE user_id = $1 AND metric_key = $2
	`

	result, err := r.pool.Exec(ctx, query, userID, metricKey, goal, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set metric goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrConfigNotFound
	}

	return nil
}

// SetConfigActive flips the is_active flag for a metric key.
func (r *Repository) SetConfigActive(ctx context.Context, userID, metricKey string, active bool) error {
	query := `
		UPDATE metric_configs
		SET is_active = $3, updated_at = $4
		WHERE user_id = $1 AND metric_key = $2
	`

	result, err := r.pool.Exec(ctx, query, userID, metricKey, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set metric config active state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrConfigNotFound
	}

	return nil
}

// collectConfigs scans all rows into MetricConfig models.
func collectConfigs(rows pgx.Rows) ([]*model.MetricConfig, error) {
	var configs []*model.MetricConfig
	for rows.Next() {
		var cfg model.MetricConfig
		err := rows.Scan(
			&cfg.ID,
			&cfg.UserID,
			&cfg.MetricKey,
			&cfg.MetricName,
			&cfg.Unit,
			&cfg.Type,
			&cfg.Goal,
			&cfg.DefaultGoal,
			&cfg.IsActive,
			&cfg.CreatedAt,
			&cfg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric config: %w", err)
		}
		configs = append(configs, &cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric configs: %w", err)
	}

	return configs, nil
}
