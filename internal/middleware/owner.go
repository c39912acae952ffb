package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifestats/lifestats/internal/auth"
)

// RequireOwner returns middleware that rejects requests whose {username}
// URL parameter does not match the authenticated account. Must be applied
// after Auth middleware.
func RequireOwner(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := auth.AuthFromContext(r.Context())
			if authCtx == nil {
				writeAuthError(w)
				return
			}

			username := chi.URLParam(r, "username")
			if username != authCtx.Username {
				logger.Warn("ownership check failed",
					slog.String("authenticated", authCtx.Username),
					slog.String("requested", username),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":{"code":"FORBIDDEN","message":"You can only manage your own account"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
