package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resgen_stage_seconds",
		Help:    "Time spent in one pipeline stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	ResourcesTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "resgen_resources",
		Help: "Number of resources collected in the last run, per kind.",
	}, []string{"kind"})

	GeneratedLeaves = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "resgen_generated_leaves",
		Help: "Number of leaf members in the last generated tree.",
	})

	UnusedImages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "resgen_unused_images",
		Help: "Number of images reported as potentially unused in the last run.",
	})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resgen_runs_total",
		Help: "Total number of generation runs by result.",
	}, []string{"result"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resgen_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resgen_watcher_throttled_total",
		Help: "Total number of change batches delayed by the regeneration limiter.",
	})
)

// ObserveStage records the time since start under the stage label.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
