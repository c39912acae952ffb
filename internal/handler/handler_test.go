package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// errorEnvelope mirrors the standard error response shape.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestRoot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Root(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["name"] != "lifestats" {
		t.Errorf("unexpected name: %s", response["name"])
	}

	if response["message"] == "" {
		t.Error("expected non-empty message")
	}
}

func TestNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var response errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected error code: %s", response.Error.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/signup", nil)
	rec := httptest.NewRecorder()

	MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}

	var response errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("unexpected error code: %s", response.Error.Code)
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	writeError(rec, http.StatusConflict, "USERNAME_TAKEN", "This username is already registered")

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}

	var response errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error.Code != "USERNAME_TAKEN" {
		t.Errorf("unexpected error code: %s", response.Error.Code)
	}

	if response.Error.Message != "This username is already registered" {
		t.Errorf("unexpected error message: %s", response.Error.Message)
	}
}

func TestWriteErrorHint_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	writeErrorHint(rec, http.StatusBadRequest, "UNKNOWN_METRIC",
		"Unknown metric key.", []string{"water_litres", "sleep_hours"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	var response struct {
		Error struct {
			Code    string   `json:"code"`
			Message string   `json:"message"`
			Hint    []string `json:"hint"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error.Code != "UNKNOWN_METRIC" {
		t.Errorf("unexpected error code: %s", response.Error.Code)
	}
	if len(response.Error.Hint) != 2 || response.Error.Hint[0] != "water_litres" {
		t.Errorf("unexpected hint: %v", response.Error.Hint)
	}
}

func TestWriteErrorHint_NilHint(t *testing.T) {
	rec := httptest.NewRecorder()

	writeErrorHint(rec, http.StatusBadRequest, "UNKNOWN_METRIC", "Unknown metric key.", nil)

	var raw map[string]map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// A nil hint still renders as an empty array, never null
	hint, ok := raw["error"]["hint"]
	if !ok {
		t.Fatal("hint field missing from envelope")
	}
	if string(hint) != "[]" {
		t.Errorf("expected empty array hint, got %s", hint)
	}
}
