package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "airq"

// Run status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the pipeline collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	stageRows        *prometheus.GaugeVec
	reconciled       prometheus.Gauge
	emptyInterestSet prometheus.Counter
	lastSuccess      prometheus.Gauge
	rowsWritten      prometheus.Counter
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates the pipeline collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full extract-reconcile-load run.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		stageRows: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows",
			Help:      "Rows left after each normalization stage in the last run.",
		}, []string{"source", "stage"}),
		reconciled: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconciled_records",
			Help:      "Unified records produced by the last run.",
		}),
		emptyInterestSet: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_interest_set_total",
			Help:      "Runs whose location selector resolved to no sensors.",
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		rowsWritten: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written to the reconciled table.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// SetStageRows records the row count left after a normalization stage.
func (m *Metrics) SetStageRows(source, stage string, rows int) {
	if m == nil {
		return
	}
	m.stageRows.WithLabelValues(source, stage).Set(float64(rows))
}

// SetReconciled records the size of the reconciled output.
func (m *Metrics) SetReconciled(n int) {
	if m == nil {
		return
	}
	m.reconciled.Set(float64(n))
}

// IncEmptyInterestSet counts a run with an empty interest set.
func (m *Metrics) IncEmptyInterestSet() {
	if m == nil {
		return
	}
	m.emptyInterestSet.Inc()
}

// AddRowsWritten counts rows persisted by a run.
func (m *Metrics) AddRowsWritten(n int64) {
	if m == nil {
		return
	}
	m.rowsWritten.Add(float64(n))
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(err error, duration time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.runDuration.Observe(duration.Seconds())
	if err != nil {
		m.runs.WithLabelValues(StatusFailure).Inc()
		return
	}
	m.runs.WithLabelValues(StatusSuccess).Inc()
	m.lastSuccess.Set(float64(finished.Unix()))
}
