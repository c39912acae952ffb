// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lifestats/lifestats/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 715715

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// migrationOrder lists schema migrations in dependency order. Resets apply
// downs in reverse, then ups forward, so foreign keys stay valid.
var migrationOrder = []string{
	"000001_users",
	"000002_api_keys",
	"000003_metric_configs",
	"000004_metric_entries",
}

// ResetSchema drops and recreates the full schema for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for i := len(migrationOrder) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, migrationOrder[i], "down"); err != nil {
			return err
		}
	}
	for _, name := range migrationOrder {
		if err := applyMigration(ctx, pool, root, name, "up"); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, name, direction string) error {
	path := filepath.Join(root, "migrations", name+"."+direction+".sql")

	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s migration %s: %w", direction, name, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s migration %s: %w", direction, name, err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// Test data factories.

// NewTestUser creates a test user with a unique username.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:        fmt.Sprintf("user-%d", now.UnixNano()),
		Username:  username,
		CreatedAt: now,
	}
}

// NewTestAPIKey creates a test API key with sensible defaults.
func NewTestAPIKey(t testing.TB, userID string) *model.APIKey {
	t.Helper()
	now := time.Now().UTC()
	return &model.APIKey{
		ID:        fmt.Sprintf("key-%d", now.UnixNano()),
		UserID:    userID,
		KeyHash:   fmt.Sprintf("hash-%d", now.UnixNano()),
		KeyPrefix: "abc123",
		CreatedAt: now,
	}
}

// NewTestConfig creates a test metric config.
func NewTestConfig(t testing.TB, userID, metricKey string, goal float64) *model.MetricConfig {
	t.Helper()
	now := time.Now().UTC()
	return &model.MetricConfig{
		ID:          fmt.Sprintf("cfg-%d", now.UnixNano()),
		UserID:      userID,
		MetricKey:   metricKey,
		MetricName:  metricKey,
		Unit:        "units",
		Type:        model.GoalTypeMin,
		Goal:        &goal,
		DefaultGoal: &goal,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestEntry creates a test metric entry at the given timestamp.
func NewTestEntry(t testing.TB, userID, metricKey string, value float64, ts time.Time) *model.MetricEntry {
	t.Helper()
	return &model.MetricEntry{
		ID:        fmt.Sprintf("entry-%d", time.Now().UnixNano()),
		UserID:    userID,
		MetricKey: metricKey,
		Value:     value,
		Timestamp: ts,
		CreatedAt: time.Now().UTC(),
	}
}
