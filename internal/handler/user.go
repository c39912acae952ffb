package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifestats/lifestats/internal/auth"
	"github.com/lifestats/lifestats/internal/handler/dto"
	"github.com/lifestats/lifestats/internal/service"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	logger *slog.Logger
	users  *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(logger *slog.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// Signup handles POST /api/signup. No authentication; rate limited per IP.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	out, err := h.users.Signup(r.Context(), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, "INVALID_USERNAME",
				"Username must be 3-30 lowercase letters, digits, or underscores")
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
		default:
			h.logger.Error("signup failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		}
		return
	}

	h.logger.Info("account created",
		slog.String("user_id", out.User.ID),
		slog.String("username", out.User.Username),
		slog.String("key_prefix", out.Key.KeyPrefix),
	)

	writeJSON(w, http.StatusCreated, dto.SignupResponse{
		Username:  out.User.Username,
		APIKey:    out.Key.Token,
		KeyID:     out.Key.ID,
		KeyPrefix: out.Key.KeyPrefix,
		CreatedAt: out.User.CreatedAt,
	})
}

// Me handles GET /api/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.users.GetProfile(r.Context(), authCtx.Username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		h.logger.Error("profile lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// DeleteAccount handles DELETE /api/user/{username}. The ownership check
// runs in middleware before this handler.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.users.DeleteAccount(r.Context(), username); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		h.logger.Error("account deletion failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete account")
		return
	}

	h.logger.Info("account deleted", slog.String("username", username))

	w.WriteHeader(http.StatusNoContent)
}
