// Package main is the entrypoint for the lifestats API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lifestats/lifestats/internal/cache"
	"github.com/lifestats/lifestats/internal/config"
	"github.com/lifestats/lifestats/internal/handler"
	"github.com/lifestats/lifestats/internal/metrics"
	"github.com/lifestats/lifestats/internal/middleware"
	"github.com/lifestats/lifestats/internal/repository"
	"github.com/lifestats/lifestats/internal/server"
	"github.com/lifestats/lifestats/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	recorder := metrics.NewPrometheus()
	userService := service.NewUserService(repo, cacheClient, recorder)
	metricService := service.NewMetricService(repo, cacheClient, cfg.AggregateCacheTTL, recorder)
	configService := service.NewConfigService(repo, cacheClient, recorder)

	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	userHandler := handler.NewUserHandler(logger, userService)
	apiKeyHandler := handler.NewAPIKeyHandler(logger, userService)
	metricHandler := handler.NewMetricHandler(logger, metricService)
	configHandler := handler.NewConfigHandler(logger, configService)

	r := setupRouter(routerDeps{
		health:   healthHandler,
		users:    userHandler,
		apiKeys:  apiKeyHandler,
		metrics:  metricHandler,
		configs:  configHandler,
		repo:     repo,
		cache:    cacheClient,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	health   *handler.HealthHandler
	users    *handler.UserHandler
	apiKeys  *handler.APIKeyHandler
	metrics  *handler.MetricHandler
	configs  *handler.ConfigHandler
	repo     *repository.Repository
	cache    *cache.Cache
	recorder *metrics.PrometheusRecorder
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      d.cfg.IsDevelopment(),
		MaxRequestBodySize: d.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	if origins := d.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Unauthenticated endpoints
	r.Get("/", handler.Root)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Method("GET", "/metrics", d.recorder.Handler())

	authCfg := middleware.AuthConfig{
		Logger:     d.logger,
		Repository: d.repo,
		Cache:      d.cache,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:          d.logger,
		Cache:           d.cache,
		APIEnabled:      d.cfg.RateLimitAPIEnabled,
		APIPerMinute:    d.cfg.RateLimitAPIPerMinute,
		APIBurst:        d.cfg.RateLimitAPIBurst,
		SignupEnabled:   d.cfg.RateLimitSignupEnabled,
		SignupPerMinute: d.cfg.RateLimitSignupPerMin,
		SignupBurst:     d.cfg.RateLimitSignupBurst,
	}

	r.Route("/api", func(r chi.Router) {
		// Signup is the only unauthenticated API route; limited per IP
		r.With(middleware.RateLimitSignup(rateLimitCfg)).Post("/signup", d.users.Signup)

		// Everything below requires an API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimitAPI(rateLimitCfg))

			r.Get("/me", d.users.Me)

			r.Route("/keys/{username}", func(r chi.Router) {
				r.Use(middleware.RequireOwner(d.logger))
				r.Get("/", d.apiKeys.ListAPIKeys)
				r.Post("/", d.apiKeys.CreateAPIKey)
				r.Delete("/{key_id}", d.apiKeys.RevokeAPIKey)
			})

			r.With(middleware.RequireOwner(d.logger)).
				Delete("/user/{username}", d.users.DeleteAccount)

			r.Route("/metrics", func(r chi.Router) {
				r.Get("/", d.metrics.GetAggregates)
				r.Post("/", d.metrics.CreateEntry)
				r.Get("/recent", d.metrics.ListRecent)

				r.Route("/config", func(r chi.Router) {
					r.Get("/", d.configs.ListConfigs)
					r.Post("/", d.configs.CreateConfig)
					r.Get("/inactive", d.configs.ListInactiveConfigs)
					r.Put("/{metric_key}", d.configs.UpdateConfig)
					r.Delete("/{metric_key}", d.configs.DeactivateConfig)
				})

				r.Delete("/{entry_id}", d.metrics.DeleteEntry)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", d.configs.ListGoals)
				r.Post("/", d.configs.SetGoal)
			})
		})
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips credentials from a connection URL for logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from error text before logging.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
