package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runCORS(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = origins
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/metrics", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSOriginHandling(t *testing.T) {
	app := "https://app.lifestats.dev"

	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"empty config denies all", nil, http.MethodGet, app, http.StatusOK, ""},
		{"listed origin allowed", []string{app}, http.MethodGet, app, http.StatusOK, app},
		{"origin match ignores case", []string{"HTTPS://APP.LIFESTATS.DEV"}, http.MethodGet, app, http.StatusOK, app},
		{"unlisted origin gets no header", []string{app}, http.MethodGet, "https://evil.example", http.StatusOK, ""},
		{"unlisted origin preflight refused", []string{app}, http.MethodOptions, "https://evil.example", http.StatusForbidden, ""},
		{"listed origin preflight succeeds", []string{app}, http.MethodOptions, app, http.StatusNoContent, app},
		{"missing origin skips cors", []string{app}, http.MethodGet, "", http.StatusOK, ""},
		{"wildcard matches subdomain", []string{"*.lifestats.dev"}, http.MethodGet, app, http.StatusOK, app},
		{"wildcard rejects bare domain", []string{"*.lifestats.dev"}, http.MethodGet, "https://lifestats.dev", http.StatusOK, ""},
		{"wildcard rejects suffix lookalike", []string{"*.lifestats.dev"}, http.MethodGet, "https://evillifestats.dev", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runCORS(t, tt.origins, tt.method, tt.origin)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestCORSPreflightHeaders(t *testing.T) {
	rec := runCORS(t, []string{"https://app.lifestats.dev"}, http.MethodOptions, "https://app.lifestats.dev")

	for _, header := range []string{
		"Access-Control-Allow-Methods",
		"Access-Control-Allow-Headers",
		"Access-Control-Max-Age",
	} {
		if rec.Header().Get(header) == "" {
			t.Errorf("%s not set on preflight", header)
		}
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want Origin", got)
	}
}
