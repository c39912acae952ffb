package model

import "testing"

func f(v float64) *float64 { return &v }

func TestGoalMet_MinType(t *testing.T) {
	cfg := &MetricConfig{Type: GoalTypeMin, Goal: f(2.0)}

	cases := []struct {
		total float64
		want  bool
	}{
		{0, false},
		{1.9, false},
		{2.0, true},
		{3.5, true},
	}

	for _, tc := range cases {
		if got := cfg.GoalMet(tc.total); got != tc.want {
			t.Errorf("GoalMet(%v) = %v, want %v", tc.total, got, tc.want)
		}
	}
}

func TestGoalMet_MaxType(t *testing.T) {
	cfg := &MetricConfig{Type: GoalTypeMax, Goal: f(10000)}

	cases := []struct {
		total float64
		want  bool
	}{
		{0, true},
		{9999.99, true},
		{10000, true},
		{10000.01, false},
		{31000, false},
	}

	for _, tc := range cases {
		if got := cfg.GoalMet(tc.total); got != tc.want {
			t.Errorf("GoalMet(%v) = %v, want %v", tc.total, got, tc.want)
		}
	}
}

func TestGoalMet_NoGoal(t *testing.T) {
	cfg := &MetricConfig{Type: GoalTypeMin}
	if cfg.GoalMet(100) {
		t.Error("expected GoalMet to be false when no goal is set")
	}
	if cfg.HasGoal() {
		t.Error("expected HasGoal to be false")
	}
}

func TestAPIKey_IsRevoked(t *testing.T) {
	key := &APIKey{}
	if key.IsRevoked() {
		t.Error("expected new key to not be revoked")
	}

	resp := key.ToResponse()
	if resp.Revoked {
		t.Error("expected response Revoked false")
	}
}

func TestDefaultMetrics_TypesValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range DefaultMetrics {
		if m.Type != GoalTypeMin && m.Type != GoalTypeMax {
			t.Errorf("metric %s has invalid type %q", m.Key, m.Type)
		}
		if seen[m.Key] {
			t.Errorf("duplicate default metric key %s", m.Key)
		}
		seen[m.Key] = true
	}
}
