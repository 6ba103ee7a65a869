package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "berlin_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for dashboard runs.
type Metrics struct {
	// Feed metrics.
	FetchAttempts *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram
	FeedRows      prometheus.Gauge

	// Run metrics.
	Runs        *prometheus.CounterVec // labels: outcome={success,selection_error,fetch_error,parse_error,error}
	RunDuration prometheus.Histogram

	ChartsRendered     *prometheus.CounterVec // labels: kind
	SnapshotsPublished prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchAttempts,
		m.FetchDuration,
		m.FeedRows,
		m.Runs,
		m.RunDuration,
		m.ChartsRendered,
		m.SnapshotsPublished,
	)
	return m
}

// NewUnregistered creates Metrics outside any registry. One-shot commands
// that never serve /metrics use it, and so do tests, which would otherwise
// hit "already registered" panics.
func NewUnregistered() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetch_attempts_total",
			Help:      "Feed fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a single feed fetch attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		FeedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_rows",
			Help:      "Number of daily records in the last normalized feed.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Dashboard pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-compute-present run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "PNG charts rendered by kind.",
		}, []string{"kind"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Entity snapshots written to Kafka.",
		}),
	}
}
