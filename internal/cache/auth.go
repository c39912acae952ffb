package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lifestats/lifestats/internal/model"
)

const (
	// authCachePrefix is the Redis key prefix for auth context cache.
	authCachePrefix = "auth:ctx:"
	// authKeyIndexPrefix maps an API key ID to its cached context key so
	// revocation can drop the entry without knowing the plaintext key.
	authKeyIndexPrefix = "auth:key:"
	// authCacheTTL is the time-to-live for cached auth contexts.
	authCacheTTL = 5 * time.Minute
)

// CachedAuthContext represents auth context stored in Redis.
type CachedAuthContext struct {
	KeyID     string `json:"key_id"`
	KeyPrefix string `json:"key_prefix"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

// GetAuthContext retrieves a cached auth context by cache key.
// Returns nil if not found (cache miss).
func (c *Cache) GetAuthContext(ctx context.Context, cacheKey string) (*model.AuthContext, error) {
	key := authCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedAuthContext
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.AuthContext{
		KeyID:     cached.KeyID,
		KeyPrefix: cached.KeyPrefix,
		UserID:    cached.UserID,
		Username:  cached.Username,
	}, nil
}

// SetAuthContext caches an auth context.
func (c *Cache) SetAuthContext(ctx context.Context, cacheKey string, auth *model.AuthContext) error {
	key := authCachePrefix + cacheKey

	cached := CachedAuthContext{
		KeyID:     auth.KeyID,
		KeyPrefix: auth.KeyPrefix,
		UserID:    auth.UserID,
		Username:  auth.Username,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal auth context: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, authCacheTTL)
	pipe.Set(ctx, authKeyIndexPrefix+auth.KeyID, cacheKey, authCacheTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteAuthContext removes a cached auth context.
func (c *Cache) DeleteAuthContext(ctx context.Context, cacheKey string) error {
	key := authCachePrefix + cacheKey
	return c.client.Del(ctx, key).Err()
}

// InvalidateAuthForKey drops the cached auth context for an API key ID.
// Used when a key is revoked so it stops authenticating immediately.
func (c *Cache) InvalidateAuthForKey(ctx context.Context, keyID string) error {
	indexKey := authKeyIndexPrefix + keyID

	cacheKey, err := c.client.Get(ctx, indexKey).Result()
	if err != nil {
		// No index entry means the key was never cached
		return nil //nolint:nilerr
	}

	return c.client.Del(ctx, authCachePrefix+cacheKey, indexKey).Err()
}
