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

// ConfigHandler handles metric config and goal endpoints.
type ConfigHandler struct {
	logger  *slog.Logger
	configs *service.ConfigService
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(logger *slog.Logger, configs *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{
		logger:  logger,
		configs: configs,
	}
}

// ListConfigs handles GET /api/metrics/config.
func (h *ConfigHandler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	h.listConfigs(w, r, true)
}

// ListInactiveConfigs handles GET /api/metrics/config/inactive.
func (h *ConfigHandler) ListInactiveConfigs(w http.ResponseWriter, r *http.Request) {
	h.listConfigs(w, r, false)
}

func (h *ConfigHandler) listConfigs(w http.ResponseWriter, r *http.Request, active bool) {
	authCtx := auth.AuthFromContext(r.Context())

	configs, err := h.configs.ListConfigs(r.Context(), authCtx.UserID, active)
	if err != nil {
		h.logger.Error("config listing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list metric configs")
		return
	}

	responses := make([]dto.ConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		responses = append(responses, dto.ToConfigResponse(cfg))
	}

	writeJSON(w, http.StatusOK, dto.ConfigListResponse{Data: responses})
}

// CreateConfig handles POST /api/metrics/config.
func (h *ConfigHandler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	var req dto.CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	cfg, err := h.configs.CreateConfig(r.Context(), authCtx.UserID, service.CreateConfigInput{
		MetricKey:  req.MetricKey,
		MetricName: req.MetricName,
		Unit:       req.Unit,
		Type:       req.Type,
		Goal:       req.Goal,
	})
	if err != nil {
		h.writeConfigError(w, err, "Failed to create metric config")
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToConfigResponse(cfg))
}

// UpdateConfig handles PUT /api/metrics/config/{metric_key}.
func (h *ConfigHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	metricKey := chi.URLParam(r, "metric_key")

	var req dto.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	cfg, err := h.configs.UpdateConfig(r.Context(), authCtx.UserID, metricKey, service.UpdateConfigInput{
		MetricName: req.MetricName,
		Unit:       req.Unit,
		Type:       req.Type,
		Goal:       req.Goal,
		IsActive:   req.IsActive,
	})
	if err != nil {
		h.writeConfigError(w, err, "Failed to update metric config")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToConfigResponse(cfg))
}

// DeactivateConfig handles DELETE /api/metrics/config/{metric_key}.
// Entries stay; the metric just drops out of stats and new logging.
func (h *ConfigHandler) DeactivateConfig(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	metricKey := chi.URLParam(r, "metric_key")

	if err := h.configs.DeactivateConfig(r.Context(), authCtx.UserID, metricKey); err != nil {
		h.writeConfigError(w, err, "Failed to deactivate metric")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListGoals handles GET /api/goals.
func (h *ConfigHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	configs, err := h.configs.ListGoals(r.Context(), authCtx.UserID)
	if err != nil {
		h.logger.Error("goal listing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list goals")
		return
	}

	responses := make([]dto.GoalResponse, 0, len(configs))
	for _, cfg := range configs {
		responses = append(responses, dto.ToGoalResponse(cfg))
	}

	writeJSON(w, http.StatusOK, dto.GoalListResponse{Data: responses})
}

// SetGoal handles POST /api/goals. Upserts the goal on a metric config.
func (h *ConfigHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	var req dto.SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.MetricKey == "" || req.Goal == nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "metric_key and goal are required")
		return
	}

	cfg, err := h.configs.SetGoal(r.Context(), authCtx.UserID, req.MetricKey, *req.Goal)
	if err != nil {
		h.writeConfigError(w, err, "Failed to set goal")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToGoalResponse(cfg))
}

// writeConfigError maps config service errors onto the error envelope.
func (h *ConfigHandler) writeConfigError(w http.ResponseWriter, err error, internalMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidMetricKey):
		writeError(w, http.StatusBadRequest, "INVALID_METRIC_KEY",
			"Metric key must be 2-50 lowercase letters, digits, or underscores, starting with a letter")
	case errors.Is(err, service.ErrInvalidMetricName):
		writeError(w, http.StatusBadRequest, "INVALID_METRIC_NAME", "Metric name must be 1-100 characters")
	case errors.Is(err, service.ErrInvalidGoalType):
		writeError(w, http.StatusBadRequest, "INVALID_GOAL_TYPE", "Goal type must be min or max")
	case errors.Is(err, service.ErrInvalidGoal):
		writeError(w, http.StatusBadRequest, "INVALID_GOAL", "Goal must be a non-negative number")
	case errors.Is(err, service.ErrMetricKeyTaken):
		writeError(w, http.StatusConflict, "METRIC_KEY_EXISTS", "A metric with this key already exists")
	case errors.Is(err, service.ErrConfigNotFound):
		writeError(w, http.StatusNotFound, "METRIC_NOT_FOUND", "Metric config not found")
	default:
		h.logger.Error("config operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", internalMsg)
	}
}
