// Package model defines domain entities for the application.
package model

import "time"

// Aggregation window names, in response order.
const (
	WindowDaily     = "daily"
	WindowWeekly    = "weekly"
	WindowMonthly   = "monthly"
	WindowQuarterly = "quarterly"
	WindowYearly    = "yearly"
)

// WindowDays maps each aggregation window to its length in days.
var WindowDays = map[string]int{
	WindowDaily:     1,
	WindowWeekly:    7,
	WindowMonthly:   30,
	WindowQuarterly: 90,
	WindowYearly:    365,
}

// WindowStats holds per-metric aggregates for a single window.
// Averages are per-day (window sum divided by window length) and nil when
// no entries exist for the metric in the window.
type WindowStats struct {
	Days        int                 `json:"days"`
	Averages    map[string]*float64 `json:"averages"`
	GoalDaysMet map[string]int      `json:"goal_days_met"`
	Completion  map[string]float64  `json:"completion"` // percent of window days met
}

// WeeklyStats extends WindowStats with per-calendar-day totals for the last
// 7 days (oldest first), used for grid and bar chart rendering.
type WeeklyStats struct {
	WindowStats
	DailyTotals map[string][]float64 `json:"daily_totals"`
}

// AggregatedMetrics is the response for GET /api/metrics.
type AggregatedMetrics struct {
	Daily       WindowStats `json:"daily"`
	Weekly      WeeklyStats `json:"weekly"`
	Monthly     WindowStats `json:"monthly"`
	Quarterly   WindowStats `json:"quarterly"`
	Yearly      WindowStats `json:"yearly"`
	GeneratedAt time.Time   `json:"generated_at"`
}
