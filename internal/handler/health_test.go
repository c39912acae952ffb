package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct {
	err error
}

func (s *stubChecker) Ping(ctx context.Context) error {
	return s.err
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return response
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	if response := decodeHealth(t, rec); response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestReadyz_AllHealthy(t *testing.T) {
	h := NewHealthHandler(&stubChecker{}, &stubChecker{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	response := decodeHealth(t, rec)
	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
	if response.Checks["postgres"] != "ok" {
		t.Errorf("unexpected postgres check: %s", response.Checks["postgres"])
	}
	if response.Checks["redis"] != "ok" {
		t.Errorf("unexpected redis check: %s", response.Checks["redis"])
	}
}

func TestReadyz_PostgresDown(t *testing.T) {
	h := NewHealthHandler(&stubChecker{err: errors.New("connection refused")}, &stubChecker{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}

	response := decodeHealth(t, rec)
	if response.Status != "unhealthy" {
		t.Errorf("expected status 'unhealthy', got %s", response.Status)
	}
	if response.Checks["postgres"] != "error: connection refused" {
		t.Errorf("unexpected postgres check: %s", response.Checks["postgres"])
	}
	if response.Checks["redis"] != "ok" {
		t.Errorf("unexpected redis check: %s", response.Checks["redis"])
	}
}

func TestReadyz_RedisDown(t *testing.T) {
	h := NewHealthHandler(&stubChecker{}, &stubChecker{err: errors.New("i/o timeout")})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}

	if response := decodeHealth(t, rec); response.Checks["redis"] != "error: i/o timeout" {
		t.Errorf("unexpected redis check: %s", response.Checks["redis"])
	}
}

func TestReadyz_NoDependencies(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	if response := decodeHealth(t, rec); response.Checks["postgres"] != "not configured" {
		t.Errorf("expected 'not configured', got %s", response.Checks["postgres"])
	}
}
