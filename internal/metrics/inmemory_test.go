package metrics

import (
	"testing"
	"time"
)

func TestInMemoryRecorder(t *testing.T) {
	m := NewInMemory()

	m.IncSignup()
	m.IncSignup()
	m.IncUserDeleted()
	m.IncEntryCreated("water_litres")
	m.IncEntryCreated("water_litres")
	m.IncEntryCreated("sleep_hours")
	m.IncEntryDeleted()
	m.IncGoalUpdated()
	m.IncConfigChanged("created")
	m.IncConfigChanged("created")
	m.IncConfigChanged("deactivated")
	m.IncAggregateCacheHit()
	m.IncAggregateCacheMiss()
	m.ObserveAggregateDuration(10 * time.Millisecond)

	s := m.Snapshot()

	if s.Signups != 2 {
		t.Errorf("Signups = %d, want 2", s.Signups)
	}
	if s.UsersDeleted != 1 {
		t.Errorf("UsersDeleted = %d, want 1", s.UsersDeleted)
	}
	if s.EntriesCreated != 3 {
		t.Errorf("EntriesCreated = %d, want 3", s.EntriesCreated)
	}
	if s.EntriesCreatedByKey["water_litres"] != 2 {
		t.Errorf("EntriesCreatedByKey[water_litres] = %d, want 2", s.EntriesCreatedByKey["water_litres"])
	}
	if s.EntriesDeleted != 1 {
		t.Errorf("EntriesDeleted = %d, want 1", s.EntriesDeleted)
	}
	if s.GoalsUpdated != 1 {
		t.Errorf("GoalsUpdated = %d, want 1", s.GoalsUpdated)
	}
	if s.ConfigChanges["created"] != 2 || s.ConfigChanges["deactivated"] != 1 {
		t.Errorf("ConfigChanges = %v", s.ConfigChanges)
	}
	if s.AggregateCacheHits != 1 || s.AggregateCacheMisses != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", s.AggregateCacheHits, s.AggregateCacheMisses)
	}
	if s.AggregateDurationCount != 1 {
		t.Errorf("AggregateDurationCount = %d, want 1", s.AggregateDurationCount)
	}
	if s.AggregateDurationTotalNs != (10 * time.Millisecond).Nanoseconds() {
		t.Errorf("AggregateDurationTotalNs = %d", s.AggregateDurationTotalNs)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	m := NewInMemory()
	m.IncEntryCreated("calories_kcal")

	s := m.Snapshot()
	s.EntriesCreatedByKey["calories_kcal"] = 99

	if m.Snapshot().EntriesCreatedByKey["calories_kcal"] != 1 {
		t.Error("mutating snapshot should not affect recorder state")
	}
}
