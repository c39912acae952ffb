// Package model defines domain entities for the application.
package model

import "time"

// GoalType constants determine the comparison direction when evaluating
// whether a day's total met the goal.
const (
	GoalTypeMin = "min" // reach at least the goal (water, sleep, exercise)
	GoalTypeMax = "max" // stay at or under the goal (calories, spend)
)

// ValidGoalTypes contains all valid goal type values.
var ValidGoalTypes = []string{GoalTypeMin, GoalTypeMax}

// MetricEntry represents a single logged value for a metric.
type MetricEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MetricKey string    `json:"metric_key"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricConfig is a per-user metric definition. It carries the goal target
// for the metric as well as display metadata. metric_key is unique per user.
type MetricConfig struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	MetricKey   string    `json:"metric_key"`
	MetricName  string    `json:"metric_name"`
	Unit        string    `json:"unit"`
	Type        string    `json:"type"` // min or max
	Goal        *float64  `json:"goal"`
	DefaultGoal *float64  `json:"default_goal"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasGoal reports whether a goal target is set.
func (c *MetricConfig) HasGoal() bool {
	return c.Goal != nil
}

// GoalMet reports whether a day total satisfies the configured goal.
// Min-type goals require total >= goal, max-type goals require total <= goal.
// Returns false when no goal is set.
func (c *MetricConfig) GoalMet(total float64) bool {
	if c.Goal == nil {
		return false
	}
	if c.Type == GoalTypeMax {
		return total <= *c.Goal
	}
	return total >= *c.Goal
}

// DefaultMetric describes one of the metrics seeded for every new user.
type DefaultMetric struct {
	Key         string
	Name        string
	Unit        string
	Type        string
	DefaultGoal float64
}

// DefaultMetrics is the metric set created at signup. Users can deactivate
// these or add their own via the config endpoints.
var DefaultMetrics = []DefaultMetric{
	{Key: "water_litres", Name: "water", Unit: "litres", Type: GoalTypeMin, DefaultGoal: 2.0},
	{Key: "calories_kcal", Name: "calories", Unit: "kilocalories", Type: GoalTypeMax, DefaultGoal: 2000.0},
	{Key: "sleep_hours", Name: "sleep", Unit: "hours", Type: GoalTypeMin, DefaultGoal: 8.0},
	{Key: "productivity_hours", Name: "productivity", Unit: "hours", Type: GoalTypeMin, DefaultGoal: 8.0},
	{Key: "exercise_hours", Name: "exercise", Unit: "hours", Type: GoalTypeMin, DefaultGoal: 1.0},
	{Key: "spend_rupees", Name: "spends", Unit: "INR", Type: GoalTypeMax, DefaultGoal: 10000.0},
}
