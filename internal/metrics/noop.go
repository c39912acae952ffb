package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup() {}

// IncUserDeleted is a no-op.
func (n *NoopRecorder) IncUserDeleted() {}

// IncEntryCreated is a no-op.
func (n *NoopRecorder) IncEntryCreated(metricKey string) {}

// IncEntryDeleted is a no-op.
func (n *NoopRecorder) IncEntryDeleted() {}

// IncGoalUpdated is a no-op.
func (n *NoopRecorder) IncGoalUpdated() {}

// IncConfigChanged is a no-op.
func (n *NoopRecorder) IncConfigChanged(action string) {}

// IncAggregateCacheHit is a no-op.
func (n *NoopRecorder) IncAggregateCacheHit() {}

// IncAggregateCacheMiss is a no-op.
func (n *NoopRecorder) IncAggregateCacheMiss() {}

// ObserveAggregateDuration is a no-op.
func (n *NoopRecorder) ObserveAggregateDuration(duration time.Duration) {}
