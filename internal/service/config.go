package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/lifestats/lifestats/internal/cache"
	"github.com/lifestats/lifestats/internal/metrics"
	"github.com/lifestats/lifestats/internal/model"
	"github.com/lifestats/lifestats/internal/repository"
)

// Config errors.
var (
	ErrInvalidMetricKey  = errors.New("invalid metric key format")
	ErrInvalidMetricName = errors.New("invalid metric name")
	ErrInvalidGoalType   = errors.New("goal type must be min or max")
	ErrInvalidGoal       = errors.New("invalid goal value")
	ErrMetricKeyTaken    = errors.New("metric key already exists")
	ErrConfigNotFound    = errors.New("metric config not found")
)

// Metric key regex: 2-50 chars, lowercase alphanumeric + underscore.
var metricKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)

const maxMetricNameLength = 100

// ConfigService handles metric config and goal management.
type ConfigService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	metrics metrics.Recorder
}

// NewConfigService creates a new ConfigService.
func NewConfigService(repo *repository.Repository, cache *cache.Cache, recorder metrics.Recorder) *ConfigService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ConfigService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
	}
}

// ListConfigs returns the user's metric configs, active or inactive.
func (s *ConfigService) ListConfigs(ctx context.Context, userID string, active bool) ([]*model.MetricConfig, error) {
	return s.repo.ListConfigs(ctx, userID, active)
}

// GetConfig returns one metric config by key.
func (s *ConfigService) GetConfig(ctx context.Context, userID, metricKey string) (*model.MetricConfig, error) {
	cfg, err := s.repo.GetConfigByKey(ctx, userID, metricKey)
	if err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// CreateConfigInput defines input for adding a custom metric.
type CreateConfigInput struct {
	MetricKey  string
	MetricName string
	Unit       string
	Type       string
	Goal       *float64
}

// CreateConfig adds a new trackable metric for the user.
func (s *ConfigService) CreateConfig(ctx context.Context, userID string, input CreateConfigInput) (*model.MetricConfig, error) {
	if !metricKeyRegex.MatchString(input.MetricKey) {
		return nil, ErrInvalidMetricKey
	}
	if input.MetricName == "" || len(input.MetricName) > maxMetricNameLength {
		return nil, ErrInvalidMetricName
	}
	if input.Type != model.GoalTypeMin && input.Type != model.GoalTypeMax {
		return nil, ErrInvalidGoalType
	}
	if input.Goal != nil {
		if err := validateGoal(*input.Goal); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	cfg := &model.MetricConfig{
		ID:          newULID(),
		UserID:      userID,
		MetricKey:   input.MetricKey,
		MetricName:  input.MetricName,
		Unit:        input.Unit,
		Type:        input.Type,
		Goal:        input.Goal,
		DefaultGoal: input.Goal,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateConfig(ctx, cfg); err != nil {
		if errors.Is(err, repository.ErrMetricKeyExists) {
			return nil, ErrMetricKeyTaken
		}
		return nil, fmt.Errorf("create config: %w", err)
	}

	s.metrics.IncConfigChanged("created")
	_ = s.cache.InvalidateAggregate(ctx, userID)

	return cfg, nil
}

// UpdateConfigInput defines a partial update; nil fields are unchanged.
type UpdateConfigInput struct {
	MetricName *string
	Unit       *string
	Type       *string
	Goal       *float64
	IsActive   *bool
}

// UpdateConfig applies a partial update to an existing metric config.
func (s *ConfigService) UpdateConfig(ctx context.Context, userID, metricKey string, input UpdateConfigInput) (*model.MetricConfig, error) {
	cfg, err := s.GetConfig(ctx, userID, metricKey)
	if err != nil {
		return nil, err
	}

	if input.MetricName != nil {
		if *input.MetricName == "" || len(*input.MetricName) > maxMetricNameLength {
			return nil, ErrInvalidMetricName
		}
		cfg.MetricName = *input.MetricName
	}
	if input.Unit != nil {
		cfg.Unit = *input.Unit
	}
	if input.Type != nil {
		if *input.Type != model.GoalTypeMin && *input.Type != model.GoalTypeMax {
			return nil, ErrInvalidGoalType
		}
		cfg.Type = *input.Type
	}
	if input.Goal != nil {
		if err := validateGoal(*input.Goal); err != nil {
			return nil, err
		}
		cfg.Goal = input.Goal
	}
	if input.IsActive != nil {
		cfg.IsActive = *input.IsActive
	}
	cfg.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateConfig(ctx, cfg); err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("update config: %w", err)
	}

	s.metrics.IncConfigChanged("updated")
	_ = s.cache.InvalidateAggregate(ctx, userID)

	return cfg, nil
}

// DeactivateConfig soft-deletes a metric. Its entries are kept but it no
// longer appears in aggregated stats.
func (s *ConfigService) DeactivateConfig(ctx context.Context, userID, metricKey string) error {
	if err := s.repo.SetConfigActive(ctx, userID, metricKey, false); err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return ErrConfigNotFound
		}
		return err
	}

	s.metrics.IncConfigChanged("deactivated")
	_ = s.cache.InvalidateAggregate(ctx, userID)

	return nil
}

// ListGoals returns the user's active configs that carry a goal.
func (s *ConfigService) ListGoals(ctx context.Context, userID string) ([]*model.MetricConfig, error) {
	configs, err := s.repo.ListConfigs(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	withGoals := make([]*model.MetricConfig, 0, len(configs))
	for _, cfg := range configs {
		if cfg.HasGoal() {
			withGoals = append(withGoals, cfg)
		}
	}
	return withGoals, nil
}

// SetGoal upserts the goal value on a metric config.
func (s *ConfigService) SetGoal(ctx context.Context, userID, metricKey string, goal float64) (*model.MetricConfig, error) {
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	if err := s.repo.SetConfigGoal(ctx, userID, metricKey, goal); err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("set goal: %w", err)
	}

	s.metrics.IncGoalUpdated()
	_ = s.cache.InvalidateAggregate(ctx, userID)

	return s.GetConfig(ctx, userID, metricKey)
}

func validateGoal(goal float64) error {
	if math.IsNaN(goal) || math.IsInf(goal, 0) || goal < 0 {
		return ErrInvalidGoal
	}
	return nil
}
