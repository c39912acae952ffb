package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lifestats/lifestats/internal/cache"
	"github.com/lifestats/lifestats/internal/metrics"
	"github.com/lifestats/lifestats/internal/model"
	"github.com/lifestats/lifestats/internal/repository"
)

// Entry errors.
var (
	ErrUnknownMetricKey = errors.New("unknown metric key")
	ErrInactiveMetric   = errors.New("metric is deactivated")
	ErrInvalidValue     = errors.New("invalid metric value")
	ErrEntryNotFound    = errors.New("entry not found")
)

// UnknownMetricKeyError wraps ErrUnknownMetricKey with the user's active
// metric keys, so the API error can hint at what is valid.
type UnknownMetricKeyError struct {
	ValidKeys []string
}

func (e *UnknownMetricKeyError) Error() string { return "unknown metric key" }

func (e *UnknownMetricKeyError) Unwrap() error { return ErrUnknownMetricKey }

const (
	// maxRecentEntries caps the recent-entries listing.
	maxRecentEntries = 100
	// defaultRecentEntries is used when the client doesn't specify a limit.
	defaultRecentEntries = 20
)

// MetricService handles metric entries and aggregated statistics.
type MetricService struct {
	repo     *repository.Repository
	cache    *cache.Cache
	cacheTTL time.Duration
	metrics  metrics.Recorder
}

// NewMetricService creates a new MetricService. cacheTTL controls how long
// aggregated stats stay cached between recomputations.
func NewMetricService(repo *repository.Repository, cache *cache.Cache, cacheTTL time.Duration, recorder metrics.Recorder) *MetricService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MetricService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  recorder,
	}
}

// CreateEntryInput defines input for logging a metric value.
type CreateEntryInput struct {
	MetricKey string
	Value     float64
	Timestamp *time.Time
}

// CreateEntry logs a value against one of the user's configured metrics.
func (s *MetricService) CreateEntry(ctx context.Context, userID string, input CreateEntryInput) (*model.MetricEntry, error) {
	if math.IsNaN(input.Value) || math.IsInf(input.Value, 0) || input.Value < 0 {
		return nil, ErrInvalidValue
	}

	cfg, err := s.repo.GetConfigByKey(ctx, userID, input.MetricKey)
	if err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return nil, &UnknownMetricKeyError{ValidKeys: s.activeMetricKeys(ctx, userID)}
		}
		return nil, err
	}
	if !cfg.IsActive {
		return nil, ErrInactiveMetric
	}

	// Client timestamps are stored as given, future ones included; entries
	// default to now when no timestamp is sent.
	ts := time.Now().UTC()
	if input.Timestamp != nil {
		ts = input.Timestamp.UTC()
	}

	entry := &model.MetricEntry{
		ID:        newULID(),
		UserID:    userID,
		MetricKey: input.MetricKey,
		Value:     input.Value,
		Timestamp: ts,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.metrics.IncEntryCreated(input.MetricKey)
	_ = s.cache.InvalidateAggregate(ctx, userID)

	return entry, nil
}

// activeMetricKeys returns the user's active metric keys for error hints.
// Best effort: a lookup failure yields an empty hint, not an error.
func (s *MetricService) activeMetricKeys(ctx context.Context, userID string) []string {
	configs, err := s.repo.ListConfigs(ctx, userID, true)
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(configs))
	for _, cfg := range configs {
		keys = append(keys, cfg.MetricKey)
	}
	return keys
}

// ListRecentEntries returns the user's most recent entries, newest first.
func (s *MetricService) ListRecentEntries(ctx context.Context, userID string, limit int) ([]*model.MetricEntry, error) {
	if limit <= 0 {
		limit = defaultRecentEntries
	}
	if limit > maxRecentEntries {
		limit = maxRecentEntries
	}
	return s.repo.ListRecentEntries(ctx, userID, limit)
}

// DeleteEntry removes one of the user's entries.
func (s *MetricService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := s.repo.DeleteEntry(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	s.metrics.IncEntryDeleted()
	_ = s.cache.InvalidateAggregate(ctx, userID)

	return nil
}

// Aggregate computes goal-completion statistics for all tracking windows.
// Results are cached per user and invalidated on any mutation.
func (s *MetricService) Aggregate(ctx context.Context, userID string) (*model.AggregatedMetrics, error) {
	if cached, err := s.cache.GetAggregate(ctx, userID); err == nil && cached != nil {
		s.metrics.IncAggregateCacheHit()
		return cached, nil
	}
	s.metrics.IncAggregateCacheMiss()

	start := time.Now()

	now := time.Now().UTC()
	yearly := model.WindowDays[model.WindowYearly]
	from := startOfDay(now).AddDate(0, 0, -(yearly - 1))
	// Through end of today, so entries stamped later today still count.
	to := startOfDay(now).AddDate(0, 0, 1)

	entries, err := s.repo.ListEntriesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	configs, err := s.repo.ListConfigs(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}

	agg := computeAggregates(entries, configs, now)

	s.metrics.ObserveAggregateDuration(time.Since(start))

	_ = s.cache.SetAggregate(ctx, userID, agg, s.cacheTTL)

	return agg, nil
}
