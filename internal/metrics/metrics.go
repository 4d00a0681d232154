// Package metrics records generation-run counters on a private Prometheus
// registry, written out as a node_exporter textfile after the run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lunartable"

// Metrics holds the Prometheus counters, histograms, and gauges for a run.
type Metrics struct {
	registry *prometheus.Registry

	YearsWritten prometheus.Counter
	YearFailures prometheus.Counter
	DaysWritten  prometheus.Counter
	YearDuration prometheus.Histogram
	LastSuccess  prometheus.Gauge
}

// New creates all metrics and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		YearsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "years_written_total",
			Help:      "Year data files written successfully.",
		}),
		YearFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "year_failures_total",
			Help:      "Years whose table could not be built or written.",
		}),
		DaysWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_written_total",
			Help:      "Day rows written across all year files.",
		}),
		YearDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "year_duration_seconds",
			Help:      "Time to build and write one year file.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time at which the last year file was written.",
		}),
	}

	m.registry.MustRegister(
		m.YearsWritten,
		m.YearFailures,
		m.DaysWritten,
		m.YearDuration,
		m.LastSuccess,
	)

	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically writes the current values in text exposition
// format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
