package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifestats/lifestats/internal/auth"
	"github.com/lifestats/lifestats/internal/model"
	"github.com/lifestats/lifestats/internal/service"
)

// APIKeyHandler handles API key management endpoints.
type APIKeyHandler struct {
	logger *slog.Logger
	users  *service.UserService
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(logger *slog.Logger, users *service.UserService) *APIKeyHandler {
	return &APIKeyHandler{
		logger: logger,
		users:  users,
	}
}

// ListAPIKeys handles GET /api/keys/{username}
func (h *APIKeyHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	keys, err := h.users.ListAPIKeys(r.Context(), authCtx.UserID)
	if err != nil {
		h.logger.Error("failed to list API keys", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list API keys")
		return
	}

	// Convert to response format (without secrets)
	responses := make([]model.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, key.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"keys": responses})
}

// CreateAPIKey handles POST /api/keys/{username}
func (h *APIKeyHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	created, err := h.users.CreateAPIKey(r.Context(), authCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrKeyLimitReached) {
			writeError(w, http.StatusConflict, "KEY_LIMIT_REACHED",
				"Active API key limit reached. Revoke an existing key first.")
			return
		}
		h.logger.Error("failed to create API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create API key")
		return
	}

	h.logger.Info("API key created",
		slog.String("key_id", created.ID),
		slog.String("key_prefix", created.KeyPrefix),
		slog.String("user_id", authCtx.UserID),
	)

	// The plaintext key appears in this response only
	writeJSON(w, http.StatusCreated, created)
}

// RevokeAPIKey handles DELETE /api/keys/{username}/{key_id}
func (h *APIKeyHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	keyID := chi.URLParam(r, "key_id")
	if keyID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Key ID is required")
		return
	}

	if err := h.users.RevokeAPIKey(r.Context(), authCtx.UserID, keyID); err != nil {
		if errors.Is(err, service.ErrAPIKeyNotFound) {
			// Same response for missing, foreign, and already-revoked keys
			// to prevent enumeration
			writeError(w, http.StatusNotFound, "KEY_NOT_FOUND", "API key not found or already revoked")
			return
		}
		h.logger.Error("failed to revoke API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke API key")
		return
	}

	h.logger.Info("API key revoked",
		slog.String("key_id", keyID),
		slog.String("user_id", authCtx.UserID),
	)

	w.WriteHeader(http.StatusNoContent)
}
