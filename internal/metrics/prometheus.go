package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder backed by a dedicated Prometheus
// registry so tests can create isolated instances.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	signups           prometheus.Counter
	usersDeleted      prometheus.Counter
	entriesCreated    *prometheus.CounterVec
	entriesDeleted    prometheus.Counter
	goalsUpdated      prometheus.Counter
	configChanges     *prometheus.CounterVec
	aggregateCache    *prometheus.CounterVec
	aggregateDuration prometheus.Histogram
}

// NewPrometheus returns a Recorder exposing counters via a fresh registry.
func NewPrometheus() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lifestats",
			Subsystem: "users",
			Name:      "signups_total",
			Help:      "Total number of account signups.",
		}),
		usersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lifestats",
			Subsystem: "users",
			Name:      "deleted_total",
			Help:      "Total number of deleted accounts.",
		}),
		entriesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifestats",
			Subsystem: "entries",
			Name:      "created_total",
			Help:      "Total number of metric entries logged.",
		}, []string{"metric_key"}),
		entriesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lifestats",
			Subsystem: "entries",
			Name:      "deleted_total",
			Help:      "Total number of metric entries deleted.",
		}),
		goalsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lifestats",
			Subsystem: "goals",
			Name:      "updated_total",
			Help:      "Total number of goal updates.",
		}),
		configChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifestats",
			Subsystem: "configs",
			Name:      "changes_total",
			Help:      "Total number of metric config changes.",
		}, []string{"action"}),
		aggregateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifestats",
			Subsystem: "aggregate",
			Name:      "cache_total",
			Help:      "Aggregate stats cache hits and misses.",
		}, []string{"result"}),
		aggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lifestats",
			Subsystem: "aggregate",
			Name:      "compute_duration_seconds",
			Help:      "Duration of aggregate stats computation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
	}

	r.registry.MustRegister(
		r.signups,
		r.usersDeleted,
		r.entriesCreated,
		r.entriesDeleted,
		r.goalsUpdated,
		r.configChanges,
		r.aggregateCache,
		r.aggregateDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	return r
}

// Handler returns an HTTP handler exposing the registered metrics.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncSignup increments the signup counter.
func (r *PrometheusRecorder) IncSignup() { r.signups.Inc() }

// IncUserDeleted increments the deleted-user counter.
func (r *PrometheusRecorder) IncUserDeleted() { r.usersDeleted.Inc() }

// IncEntryCreated increments the entry counter for a metric key.
func (r *PrometheusRecorder) IncEntryCreated(metricKey string) {
	r.entriesCreated.WithLabelValues(metricKey).Inc()
}

// IncEntryDeleted increments the deleted-entry counter.
func (r *PrometheusRecorder) IncEntryDeleted() { r.entriesDeleted.Inc() }

// IncGoalUpdated increments the goal update counter.
func (r *PrometheusRecorder) IncGoalUpdated() { r.goalsUpdated.Inc() }

// IncConfigChanged increments the config change counter for an action.
func (r *PrometheusRecorder) IncConfigChanged(action string) {
	r.configChanges.WithLabelValues(action).Inc()
}

// IncAggregateCacheHit increments the aggregate cache hit counter.
func (r *PrometheusRecorder) IncAggregateCacheHit() {
	r.aggregateCache.WithLabelValues("hit").Inc()
}

// IncAggregateCacheMiss increments the aggregate cache miss counter.
func (r *PrometheusRecorder) IncAggregateCacheMiss() {
	r.aggregateCache.WithLabelValues("miss").Inc()
}

// ObserveAggregateDuration records aggregate computation duration.
func (r *PrometheusRecorder) ObserveAggregateDuration(duration time.Duration) {
	r.aggregateDuration.Observe(duration.Seconds())
}
