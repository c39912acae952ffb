// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account lifecycle
	IncSignup()
	IncUserDeleted()

	// Metric entry operations
	IncEntryCreated(metricKey string)
	IncEntryDeleted()

	// Goal and config management
	IncGoalUpdated()
	IncConfigChanged(action string) // action: "created", "updated", "deactivated"

	// Aggregation pipeline
	IncAggregateCacheHit()
	IncAggregateCacheMiss()
	ObserveAggregateDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
