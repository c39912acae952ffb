//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/lifestats/lifestats/internal/model"
	"github.com/lifestats/lifestats/internal/testutil"
)

func newTestCache(t *testing.T) (context.Context, *Cache) {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")

	ctx := context.Background()
	c, err := New(ctx, redisURL)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}

func TestIntegrationAuthContextRoundTrip(t *testing.T) {
	ctx, c := newTestCache(t)

	authCtx := &model.AuthContext{
		KeyID:     "01J0KEY",
		KeyPrefix: "abc123",
		UserID:    "01J0USER",
		Username:  "alice",
	}

	if err := c.SetAuthContext(ctx, "quickhash1234567", authCtx); err != nil {
		t.Fatalf("SetAuthContext failed: %v", err)
	}

	got, err := c.GetAuthContext(ctx, "quickhash1234567")
	if err != nil {
		t.Fatalf("GetAuthContext failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached auth context, got miss")
	}
	if got.Username != "alice" || got.KeyID != "01J0KEY" {
		t.Errorf("unexpected cached context: %+v", got)
	}

	// Unknown cache key is a miss, not an error
	miss, err := c.GetAuthContext(ctx, "not-cached")
	if err != nil {
		t.Fatalf("GetAuthContext failed: %v", err)
	}
	if miss != nil {
		t.Errorf("expected miss, got %+v", miss)
	}
}

func TestIntegrationInvalidateAuthForKey(t *testing.T) {
	ctx, c := newTestCache(t)

	authCtx := &model.AuthContext{
		KeyID:     "01J0REVOKED",
		KeyPrefix: "def456",
		UserID:    "01J0USER",
		Username:  "bob",
	}

	if err := c.SetAuthContext(ctx, "quickhash7654321", authCtx); err != nil {
		t.Fatalf("SetAuthContext failed: %v", err)
	}

	// Invalidation by key ID must drop the entry written under the quick hash
	if err := c.InvalidateAuthForKey(ctx, "01J0REVOKED"); err != nil {
		t.Fatalf("InvalidateAuthForKey failed: %v", err)
	}

	got, err := c.GetAuthContext(ctx, "quickhash7654321")
	if err != nil {
		t.Fatalf("GetAuthContext failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected auth context dropped after invalidation, got %+v", got)
	}

	// Invalidating a key that was never cached is a no-op
	if err := c.InvalidateAuthForKey(ctx, "01J0NEVERSEEN"); err != nil {
		t.Errorf("expected nil for unknown key, got %v", err)
	}
}

func TestIntegrationAggregateCache(t *testing.T) {
	ctx, c := newTestCache(t)

	avg := 2.25
	agg := &model.AggregatedMetrics{
		Daily: model.WindowStats{
			Days:        1,
			Averages:    map[string]*float64{"water_litres": &avg},
			GoalDaysMet: map[string]int{"water_litres": 1},
			Completion:  map[string]float64{"water_litres": 100},
		},
		GeneratedAt: time.Now().UTC(),
	}

	if err := c.SetAggregate(ctx, "01J0USER", agg, time.Minute); err != nil {
		t.Fatalf("SetAggregate failed: %v", err)
	}

	got, err := c.GetAggregate(ctx, "01J0USER")
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached aggregate, got miss")
	}
	if got.Daily.Days != 1 {
		t.Errorf("expected daily days 1, got %d", got.Daily.Days)
	}
	if v := got.Daily.Averages["water_litres"]; v == nil || *v != 2.25 {
		t.Errorf("expected water average 2.25, got %v", v)
	}

	if err := c.InvalidateAggregate(ctx, "01J0USER"); err != nil {
		t.Fatalf("InvalidateAggregate failed: %v", err)
	}

	got, err = c.GetAggregate(ctx, "01J0USER")
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss after invalidation, got %+v", got)
	}

	// Other users' caches are untouched
	if err := c.SetAggregate(ctx, "01J0OTHER", agg, time.Minute); err != nil {
		t.Fatalf("SetAggregate failed: %v", err)
	}
	if err := c.InvalidateAggregate(ctx, "01J0USER"); err != nil {
		t.Fatalf("InvalidateAggregate failed: %v", err)
	}
	other, err := c.GetAggregate(ctx, "01J0OTHER")
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if other == nil {
		t.Error("expected other user's aggregate to survive")
	}
}
