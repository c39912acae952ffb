// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lifestats/lifestats/internal/auth"
	"github.com/lifestats/lifestats/internal/cache"
	"github.com/lifestats/lifestats/internal/metrics"
	"github.com/lifestats/lifestats/internal/model"
	"github.com/lifestats/lifestats/internal/repository"
)

// Service errors.
var (
	ErrInvalidUsername = errors.New("invalid username format")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrUserNotFound    = errors.New("user not found")
	ErrKeyLimitReached = errors.New("active API key limit reached")
	ErrAPIKeyNotFound  = errors.New("API key not found")
)

// Username validation regex: 3-30 chars, lowercase alphanumeric + underscore.
var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// reservedUsernames cannot be registered; they collide with route segments
// or operational names.
var reservedUsernames = map[string]bool{
	"admin":   true,
	"api":     true,
	"health":  true,
	"healthz": true,
	"readyz":  true,
	"metrics": true,
	"system":  true,
	"me":      true,
	"recent":  true,
	"config":  true,
}

// UserService handles account lifecycle and API key management.
type UserService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, cache *cache.Cache, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
	}
}

// SignupOutput is returned once at signup. Token is the only time the
// plaintext API key is visible.
type SignupOutput struct {
	User *model.User
	Key  *model.APIKeyCreateResponse
}

// Signup registers a new account, seeds the default metric configs, and
// issues the first API key.
func (s *UserService) Signup(ctx context.Context, username string) (*SignupOutput, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	user := &model.User{
		ID:        newULID(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.repo.InsertDefaultConfigs(ctx, defaultConfigsFor(user.ID)); err != nil {
		return nil, fmt.Errorf("seed default configs: %w", err)
	}

	created, err := s.issueKey(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.IncSignup()

	return &SignupOutput{User: user, Key: created}, nil
}

// GetProfile retrieves a user by username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes a user and all associated data.
func (s *UserService) DeleteAccount(ctx context.Context, username string) error {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	keys, err := s.repo.ListAPIKeysByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	// Best effort cache cleanup; entries expire on their own TTLs
	for _, k := range keys {
		_ = s.cache.InvalidateAuthForKey(ctx, k.ID)
	}
	_ = s.cache.InvalidateAggregate(ctx, user.ID)

	s.metrics.IncUserDeleted()

	return nil
}

// ListAPIKeys returns all keys for a user, newest first.
func (s *UserService) ListAPIKeys(ctx context.Context, userID string) ([]*model.APIKey, error) {
	return s.repo.ListAPIKeysByUserID(ctx, userID)
}

// CreateAPIKey issues an additional key for a user, subject to the active
// key cap.
func (s *UserService) CreateAPIKey(ctx context.Context, userID string) (*model.APIKeyCreateResponse, error) {
	count, err := s.repo.CountActiveAPIKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxActiveAPIKeys {
		return nil, ErrKeyLimitReached
	}

	return s.issueKey(ctx, userID)
}

// RevokeAPIKey revokes a key owned by the user and drops its cached auth
// context.
func (s *UserService) RevokeAPIKey(ctx context.Context, userID, keyID string) error {
	key, err := s.repo.GetAPIKeyByID(ctx, keyID)
	if err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return ErrAPIKeyNotFound
		}
		return err
	}
	if key.UserID != userID || key.IsRevoked() {
		return ErrAPIKeyNotFound
	}

	if err := s.repo.RevokeAPIKey(ctx, keyID); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return ErrAPIKeyNotFound
		}
		return err
	}

	_ = s.cache.InvalidateAuthForKey(ctx, keyID)

	return nil
}

// issueKey generates, hashes, and stores a new API key.
func (s *UserService) issueKey(ctx context.Context, userID string) (*model.APIKeyCreateResponse, error) {
	generated, err := auth.GenerateAPIKey(auth.EnvLive)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	key := &model.APIKey{
		ID:        newULID(),
		UserID:    userID,
		KeyHash:   generated.Hash,
		KeyPrefix: generated.Prefix,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}

	return &model.APIKeyCreateResponse{
		ID:        key.ID,
		Token:     generated.Plaintext,
		KeyPrefix: key.KeyPrefix,
		CreatedAt: key.CreatedAt,
	}, nil
}

// defaultConfigsFor builds the seed metric configs for a new account.
// The default goal doubles as the initial goal so fresh accounts get
// meaningful completion stats immediately.
func defaultConfigsFor(userID string) []*model.MetricConfig {
	now := time.Now().UTC()
	configs := make([]*model.MetricConfig, 0, len(model.DefaultMetrics))
	for _, d := range model.DefaultMetrics {
		goal := d.DefaultGoal
		defaultGoal := d.DefaultGoal
		configs = append(configs, &model.MetricConfig{
			ID:          newULID(),
			UserID:      userID,
			MetricKey:   d.Key,
			MetricName:  d.Name,
			Unit:        d.Unit,
			Type:        d.Type,
			Goal:        &goal,
			DefaultGoal: &defaultGoal,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return configs
}

// ValidateUsername checks format and reserved name constraints.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	if reservedUsernames[username] {
		return ErrInvalidUsername
	}
	return nil
}

// newULID returns a lexicographically sortable unique ID.
func newULID() string {
	return ulid.Make().String()
}
