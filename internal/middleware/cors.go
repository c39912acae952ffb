package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	// AllowedOrigins lists origins permitted to call the API from a
	// browser. Entries like "*.example.com" match subdomains. Empty
	// means no cross-origin access.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string

	// ExposedHeaders are response headers the browser may read.
	ExposedHeaders []string

	// AllowCredentials must stay false while AllowedOrigins could
	// contain "*".
	AllowCredentials bool

	// MaxAge caps preflight caching, in seconds.
	MaxAge int
}

// DefaultCORSConfig returns defaults suited to a bearer-token API:
// no origins allowed until configured, credentials off.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-API-Key",
			"X-Request-ID",
			"Accept",
			"Accept-Language",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: false,
		MaxAge:           86400,
	}
}

// CORS handles cross-origin requests, including OPTIONS preflights.
// Disallowed origins get no CORS headers; their preflights get 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")

	exact := make(map[string]bool, len(cfg.AllowedOrigins))
	var wildcards []string
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.ToLower(origin)
		if strings.HasPrefix(origin, "*.") {
			wildcards = append(wildcards, strings.TrimPrefix(origin, "*"))
			continue
		}
		exact[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Same-origin requests carry no Origin header
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !originAllowed(origin, exact, wildcards) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				// Without CORS headers the browser rejects the response
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed matches an Origin header against the configured exact
// origins and "*.domain" wildcards. Wildcards match subdomains only,
// never the bare domain or a suffix of another name.
func originAllowed(origin string, exact map[string]bool, wildcards []string) bool {
	origin = strings.ToLower(origin)
	if exact[origin] {
		return true
	}
	for _, suffix := range wildcards {
		if !strings.HasSuffix(origin, suffix) {
			continue
		}
		prefix := strings.TrimSuffix(origin, suffix)
		if strings.HasSuffix(prefix, "://") || strings.Contains(prefix, ".") {
			return true
		}
	}
	return false
}
