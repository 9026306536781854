package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns the pipeline's prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	fixturesInserted prometheus.Counter
	queryFailures    *prometheus.CounterVec
	snapshotRejected *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Wall time of a pipeline run.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		fixturesInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fixtures_inserted_total",
			Help: "Fixture rows written by the repository.",
		}),
		queryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repository_query_failures_total",
			Help: "Read queries that degraded to an empty answer.",
		}, []string{"query"}),
		snapshotRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapshot_rejected_total",
			Help: "Staged snapshots rejected at load.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.runsTotal,
		m.runDuration,
		m.fixturesInserted,
		m.queryFailures,
		m.snapshotRejected,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRun(outcome string, duration time.Duration, inserted int) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
	if inserted > 0 {
		m.fixturesInserted.Add(float64(inserted))
	}
}

func (m *Metrics) QueryFailed(query string) {
	if m == nil {
		return
	}
	m.queryFailures.WithLabelValues(query).Inc()
}

func (m *Metrics) SnapshotRejected(reason string) {
	if m == nil {
		return
	}
	m.snapshotRejected.WithLabelValues(reason).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
