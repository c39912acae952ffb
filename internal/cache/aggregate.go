package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lifestats/lifestats/internal/model"
)

// aggregateCachePrefix is the Redis key prefix for per-user aggregate stats.
const aggregateCachePrefix = "agg:user:"

// GetAggregate retrieves cached aggregated metrics for a user.
// Returns nil on cache miss or a corrupted entry.
func (c *Cache) GetAggregate(ctx context.Context, userID string) (*model.AggregatedMetrics, error) {
	key := aggregateCachePrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var agg model.AggregatedMetrics
	if err := json.Unmarshal(data, &agg); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &agg, nil
}

// SetAggregate caches aggregated metrics for a user with the given TTL.
func (c *Cache) SetAggregate(ctx context.Context, userID string, agg *model.AggregatedMetrics, ttl time.Duration) error {
	key := aggregateCachePrefix + userID

	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("marshal aggregate: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateAggregate drops the cached aggregate for a user.
// Called after any entry, goal, or config mutation.
func (c *Cache) InvalidateAggregate(ctx context.Context, userID string) error {
	key := aggregateCachePrefix + userID
	return c.client.Del(ctx, key).Err()
}
