// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/lifestats/lifestats/internal/model"
)

// SignupRequest represents the request body for account registration.
type SignupRequest struct {
	Username string `json:"username"`
}

// SignupResponse returns the new account and its first API key. The token
// is shown once and never again.
type SignupResponse struct {
	Username  string    `json:"username"`
	APIKey    string    `json:"api_key"`
	KeyID     string    `json:"key_id"`
	KeyPrefix string    `json:"key_prefix"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse represents the authenticated account.
type ProfileResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEntryRequest represents the request body for logging a metric value.
type CreateEntryRequest struct {
	MetricKey string     `json:"metric_key"`
	Value     *float64   `json:"value"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// EntryResponse represents a logged metric entry.
type EntryResponse struct {
	ID        string    `json:"id"`
	MetricKey string    `json:"metric_key"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// EntryListResponse wraps a list of entries.
type EntryListResponse struct {
	Data []EntryResponse `json:"data"`
}

// CreateConfigRequest represents the request body for adding a metric.
type CreateConfigRequest struct {
	MetricKey  string   `json:"metric_key"`
	MetricName string   `json:"metric_name"`
	Unit       string   `json:"unit"`
	Type       string   `json:"type"`
	Goal       *float64 `json:"goal,omitempty"`
}

// UpdateConfigRequest represents a partial metric config update.
type UpdateConfigRequest struct {
	MetricName *string  `json:"metric_name,omitempty"`
	Unit       *string  `json:"unit,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Goal       *float64 `json:"goal,omitempty"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

// ConfigResponse represents a metric config in API responses.
type ConfigResponse struct {
	MetricKey   string    `json:"metric_key"`
	MetricName  string    `json:"metric_name"`
	Unit        string    `json:"unit"`
	Type        string    `json:"type"`
	Goal        *float64  `json:"goal"`
	DefaultGoal *float64  `json:"default_goal,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConfigListResponse wraps a list of metric configs.
type ConfigListResponse struct {
	Data []ConfigResponse `json:"data"`
}

// SetGoalRequest represents the request body for setting a goal.
type SetGoalRequest struct {
	MetricKey string   `json:"metric_key"`
	Goal      *float64 `json:"goal"`
}

// GoalResponse represents a goal in API responses.
type GoalResponse struct {
	MetricKey  string  `json:"metric_key"`
	MetricName string  `json:"metric_name"`
	Unit       string  `json:"unit"`
	Type       string  `json:"type"`
	Goal       float64 `json:"goal"`
}

// GoalListResponse wraps a list of goals.
type GoalListResponse struct {
	Data []GoalResponse `json:"data"`
}

// ToEntryResponse converts a MetricEntry model to its DTO.
func ToEntryResponse(e *model.MetricEntry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		MetricKey: e.MetricKey,
		Value:     e.Value,
		Timestamp: e.Timestamp,
		CreatedAt: e.CreatedAt,
	}
}

// ToConfigResponse converts a MetricConfig model to its DTO.
func ToConfigResponse(c *model.MetricConfig) ConfigResponse {
	return ConfigResponse{
		MetricKey:   c.MetricKey,
		MetricName:  c.MetricName,
		Unit:        c.Unit,
		Type:        c.Type,
		Goal:        c.Goal,
		DefaultGoal: c.DefaultGoal,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToGoalResponse converts a MetricConfig carrying a goal to its goal DTO.
func ToGoalResponse(c *model.MetricConfig) GoalResponse {
	var goal float64
	if c.Goal != nil {
		goal = *c.Goal
	}
	return GoalResponse{
		MetricKey:  c.MetricKey,
		MetricName: c.MetricName,
		Unit:       c.Unit,
		Type:       c.Type,
		Goal:       goal,
	}
}
