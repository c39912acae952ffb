package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups                  uint64
	UsersDeleted             uint64
	EntriesCreated           uint64
	EntriesCreatedByKey      map[string]uint64
	EntriesDeleted           uint64
	GoalsUpdated             uint64
	ConfigChanges            map[string]uint64
	AggregateCacheHits       uint64
	AggregateCacheMisses     uint64
	AggregateDurationCount   uint64
	AggregateDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	signups                  uint64
	usersDeleted             uint64
	entriesCreated           uint64
	entriesDeleted           uint64
	goalsUpdated             uint64
	aggregateCacheHits       uint64
	aggregateCacheMisses     uint64
	aggregateDurationCount   uint64
	aggregateDurationTotalNs int64

	mu                  sync.Mutex
	entriesCreatedByKey map[string]uint64
	configChanges       map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		entriesCreatedByKey: make(map[string]uint64),
		configChanges:       make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	byKey := make(map[string]uint64, len(m.entriesCreatedByKey))
	for k, v := range m.entriesCreatedByKey {
		byKey[k] = v
	}
	changes := make(map[string]uint64, len(m.configChanges))
	for k, v := range m.configChanges {
		changes[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		Signups:                  atomic.LoadUint64(&m.signups),
		UsersDeleted:             atomic.LoadUint64(&m.usersDeleted),
		EntriesCreated:           atomic.LoadUint64(&m.entriesCreated),
		EntriesCreatedByKey:      byKey,
		EntriesDeleted:           atomic.LoadUint64(&m.entriesDeleted),
		GoalsUpdated:             atomic.LoadUint64(&m.goalsUpdated),
		ConfigChanges:            changes,
		AggregateCacheHits:       atomic.LoadUint64(&m.aggregateCacheHits),
		AggregateCacheMisses:     atomic.LoadUint64(&m.aggregateCacheMisses),
		AggregateDurationCount:   atomic.LoadUint64(&m.aggregateDurationCount),
		AggregateDurationTotalNs: atomic.LoadInt64(&m.aggregateDurationTotalNs),
	}
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

// IncUserDeleted increments the deleted-user counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncEntryCreated increments the entry counters.
func (m *InMemoryRecorder) IncEntryCreated(metricKey string) {
	atomic.AddUint64(&m.entriesCreated, 1)
	m.mu.Lock()
	m.entriesCreatedByKey[metricKey]++
	m.mu.Unlock()
}

// IncEntryDeleted increments the deleted-entry counter.
func (m *InMemoryRecorder) IncEntryDeleted() {
	atomic.AddUint64(&m.entriesDeleted, 1)
}

// IncGoalUpdated increments the goal update counter.
func (m *InMemoryRecorder) IncGoalUpdated() {
	atomic.AddUint64(&m.goalsUpdated, 1)
}

// IncConfigChanged increments the config change counter for an action.
func (m *InMemoryRecorder) IncConfigChanged(action string) {
	m.mu.Lock()
	m.configChanges[action]++
	m.mu.Unlock()
}

// IncAggregateCacheHit increments the aggregate cache hit counter.
func (m *InMemoryRecorder) IncAggregateCacheHit() {
	atomic.AddUint64(&m.aggregateCacheHits, 1)
}

// IncAggregateCacheMiss increments the aggregate cache miss counter.
func (m *InMemoryRecorder) IncAggregateCacheMiss() {
	atomic.AddUint64(&m.aggregateCacheMisses, 1)
}

// ObserveAggregateDuration records aggregate computation duration.
func (m *InMemoryRecorder) ObserveAggregateDuration(duration time.Duration) {
	atomic.AddUint64(&m.aggregateDurationCount, 1)
	atomic.AddInt64(&m.aggregateDurationTotalNs, duration.Nanoseconds())
}
