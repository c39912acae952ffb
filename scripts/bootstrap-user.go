package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lifestats/lifestats/internal/auth"
	"github.com/lifestats/lifestats/internal/model"
	"github.com/lifestats/lifestats/internal/repository"
)

// Seeds a user and a live API key directly in the database. Useful for
// local development and smoke tests when the signup endpoint is not the
// path you want (e.g. seeding behind a signup rate limit).

type output struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	KeyID     string `json:"key_id"`
	Key       string `json:"key"`
	KeyPrefix string `json:"key_prefix"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "system", "Username to own the API key")
		env         = flag.String("env", "live", "Key environment: live or test")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	keyEnv := auth.EnvLive
	if strings.EqualFold(*env, "test") {
		keyEnv = auth.EnvTest
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := ensureUser(ctx, repo, *username)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	generated, err := auth.GenerateAPIKey(keyEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate api key:", err)
		os.Exit(1)
	}

	apiKey := &model.APIKey{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		KeyHash:   generated.Hash,
		KeyPrefix: generated.Prefix,
		CreatedAt: time.Now().UTC(),
	}

	if err := repo.CreateAPIKey(ctx, apiKey); err != nil {
		fmt.Fprintln(os.Stderr, "create api key:", err)
		os.Exit(1)
	}

	out := output{
		UserID:    user.ID,
		Username:  user.Username,
		KeyID:     apiKey.ID,
		Key:       generated.Plaintext,
		KeyPrefix: apiKey.KeyPrefix,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Key)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser returns the existing user for username, or creates it with
// the default metric set.
func ensureUser(ctx context.Context, repo *repository.Repository, username string) (*model.User, error) {
	if existing, err := repo.GetUserByUsername(ctx, username); err == nil {
		return existing, nil
	}

	user := &model.User{
		ID:        ulid.Make().String(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	now := time.Now().UTC()
	configs := make([]*model.MetricConfig, 0, len(model.DefaultMetrics))
	for _, d := range model.DefaultMetrics {
		goal := d.DefaultGoal
		configs = append(configs, &model.MetricConfig{
			ID:          ulid.Make().String(),
			UserID:      user.ID,
			MetricKey:   d.Key,
			MetricName:  d.Name,
			Unit:        d.Unit,
			Type:        d.Type,
			Goal:        &goal,
			DefaultGoal: &goal,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := repo.InsertDefaultConfigs(ctx, configs); err != nil {
		return nil, fmt.Errorf("insert default configs: %w", err)
	}

	return user, nil
}
