package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lifestats/lifestats/internal/auth"
	"github.com/lifestats/lifestats/internal/cache"
	"github.com/lifestats/lifestats/internal/model"
	"github.com/lifestats/lifestats/internal/repository"
)

const (
	// minAuthDuration is the minimum time to spend on auth to prevent timing attacks.
	minAuthDuration = 200 * time.Millisecond
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Cache      *cache.Cache
}

// Auth returns a middleware that authenticates API requests.
// It extracts the API key from the Authorization header,
// verifies it, and injects the auth context into the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			// Ensure consistent timing regardless of outcome
			defer func() {
				elapsed := time.Since(startTime)
				if elapsed < minAuthDuration {
					time.Sleep(minAuthDuration - elapsed)
				}
			}()

			key := extractAPIKey(r)
			if key == "" {
				logAuthFailure(cfg.Logger, r, "missing_key")
				writeAuthError(w)
				return
			}

			parsed, err := auth.ParseAPIKey(key)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_format")
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(key)
			authCtx, _ := cfg.Cache.GetAuthContext(r.Context(), cacheKey)

			if authCtx != nil {
				logAuthSuccess(cfg.Logger, r, authCtx, true)
				ctx := auth.ContextWithAuth(r.Context(), authCtx)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Cache miss - lookup active keys by prefix
			keys, err := cfg.Repository.GetAPIKeysByPrefix(r.Context(), parsed.Prefix)
			if err != nil {
				cfg.Logger.Error("database error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if len(keys) == 0 {
				logAuthFailure(cfg.Logger, r, "invalid_key")
				writeAuthError(w)
				return
			}

			// Verify against each candidate key (handles prefix collisions)
			var matchedKey *model.APIKey
			for _, k := range keys {
				match, err := auth.VerifyKey(key, k.KeyHash)
				if err != nil {
					continue
				}
				if match {
					matchedKey = k
					break
				}
			}

			if matchedKey == nil {
				logAuthFailure(cfg.Logger, r, "invalid_key")
				writeAuthError(w)
				return
			}

			user, err := cfg.Repository.GetUserByID(r.Context(), matchedKey.UserID)
			if err != nil {
				// Key without a user means a cascade delete raced us
				logAuthFailure(cfg.Logger, r, "orphaned_key")
				writeAuthError(w)
				return
			}

			authCtx = &model.AuthContext{
				KeyID:     matchedKey.ID,
				KeyPrefix: matchedKey.KeyPrefix,
				UserID:    matchedKey.UserID,
				Username:  user.Username,
			}

			_ = cfg.Cache.SetAuthContext(r.Context(), cacheKey, authCtx)

			// Update last_used_at asynchronously; detach from the request
			// context so the write survives the response
			go func(ctx context.Context, keyID string) {
				_ = cfg.Repository.UpdateAPIKeyLastUsed(ctx, keyID)
			}(context.WithoutCancel(r.Context()), matchedKey.ID)

			logAuthSuccess(cfg.Logger, r, authCtx, false)

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

func logAuthSuccess(logger *slog.Logger, r *http.Request, authCtx *model.AuthContext, cacheHit bool) {
	logger.Info("authentication successful",
		slog.String("key_id", authCtx.KeyID),
		slog.String("key_prefix", authCtx.KeyPrefix),
		slog.String("user_id", authCtx.UserID),
		slog.String("username", authCtx.Username),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.Bool("cache_hit", cacheHit),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// extractAPIKey extracts the API key from the request.
// Supports both "Authorization: Bearer <key>" and "X-API-Key: <key>" headers.
func extractAPIKey(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	return r.Header.Get("X-API-Key")
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing API key"}}`))
}
