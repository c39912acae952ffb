package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSetRateLimitHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	resetAt := time.Unix(1700000000, 0)

	setRateLimitHeaders(rec, 600, 45, resetAt)

	if got := rec.Header().Get("X-RateLimit-Limit"); got != "600" {
		t.Errorf("X-RateLimit-Limit = %q, want 600", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "45" {
		t.Errorf("X-RateLimit-Remaining = %q, want 45", got)
	}
	if got := rec.Header().Get("X-RateLimit-Reset"); got != "1700000000" {
		t.Errorf("X-RateLimit-Reset = %q, want 1700000000", got)
	}
}

func TestSetRateLimitHeadersZeroLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	setRateLimitHeaders(rec, 0, 0, time.Now())

	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("headers should not be set when the limit is zero")
	}
}

func TestWriteRateLimitError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRateLimitError(rec, 5*time.Second)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Error("expected JSON content type")
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"code":"RATE_LIMITED"`) {
		t.Errorf("body should contain RATE_LIMITED code, got: %s", body)
	}
	if !strings.Contains(body, "5 seconds") {
		t.Errorf("body should mention the retry delay, got: %s", body)
	}
}

func TestRateLimitAPIDisabled(t *testing.T) {
	cfg := RateLimitConfig{APIEnabled: false}

	called := false
	handler := RateLimitAPI(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	if !called {
		t.Error("disabled rate limiter should pass requests through")
	}
}

func TestRateLimitSignupDisabled(t *testing.T) {
	cfg := RateLimitConfig{SignupEnabled: false}

	called := false
	handler := RateLimitSignup(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/signup", nil))

	if !called {
		t.Error("disabled rate limiter should pass requests through")
	}
}
