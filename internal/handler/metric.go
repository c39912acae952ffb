package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lifestats/lifestats/internal/auth"
	"github.com/lifestats/lifestats/internal/handler/dto"
	"github.com/lifestats/lifestats/internal/service"
)

// MetricHandler handles metric entry and aggregation endpoints.
type MetricHandler struct {
	logger  *slog.Logger
	metrics *service.MetricService
}

// NewMetricHandler creates a new MetricHandler.
func NewMetricHandler(logger *slog.Logger, metrics *service.MetricService) *MetricHandler {
	return &MetricHandler{
		logger:  logger,
		metrics: metrics,
	}
}

// GetAggregates handles GET /api/metrics. Returns goal-completion stats for
// every tracking window.
func (h *MetricHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	agg, err := h.metrics.Aggregate(r.Context(), authCtx.UserID)
	if err != nil {
		h.logger.Error("aggregation failed",
			slog.String("user_id", authCtx.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, agg)
}

// CreateEntry handles POST /api/metrics.
func (h *MetricHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.MetricKey == "" || req.Value == nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "metric_key and value are required")
		return
	}

	entry, err := h.metrics.CreateEntry(r.Context(), authCtx.UserID, service.CreateEntryInput{
		MetricKey: req.MetricKey,
		Value:     *req.Value,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		var unknownKey *service.UnknownMetricKeyError
		switch {
		case errors.As(err, &unknownKey):
			writeErrorHint(w, http.StatusBadRequest, "UNKNOWN_METRIC",
				"Unknown metric key. POST /api/metrics/config to add a new metric first.",
				unknownKey.ValidKeys)
		case errors.Is(err, service.ErrInactiveMetric):
			writeError(w, http.StatusBadRequest, "INACTIVE_METRIC",
				"Metric is deactivated. Reactivate it via PUT /api/metrics/config/{metric_key}.")
		case errors.Is(err, service.ErrInvalidValue):
			writeError(w, http.StatusBadRequest, "INVALID_VALUE", "Value must be a non-negative number")
		default:
			h.logger.Error("entry creation failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log entry")
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToEntryResponse(entry))
}

// ListRecent handles GET /api/metrics/recent?limit=N.
func (h *MetricHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.metrics.ListRecentEntries(r.Context(), authCtx.UserID, limit)
	if err != nil {
		h.logger.Error("recent entries lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list entries")
		return
	}

	responses := make([]dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, dto.ToEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, dto.EntryListResponse{Data: responses})
}

// DeleteEntry handles DELETE /api/metrics/{entry_id}.
func (h *MetricHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())

	entryID := chi.URLParam(r, "entry_id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Entry ID is required")
		return
	}

	if err := h.metrics.DeleteEntry(r.Context(), authCtx.UserID, entryID); err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "ENTRY_NOT_FOUND", "Entry not found")
			return
		}
		h.logger.Error("entry deletion failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
