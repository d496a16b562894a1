package calculator

import "github.com/prometheus/client_golang/prometheus"

// Test bridge: exposes the collectors behind Metrics to calculator_test.

// MetricsTotal returns the compute_total counter for kind and status.
func MetricsTotal(m *Metrics, kind, status string) prometheus.Counter {
	return m.total.WithLabelValues(kind, status)
}

// MetricsPairs returns the neighbor_pairs_total counter.
func MetricsPairs(m *Metrics) prometheus.Counter { return m.pairs }

// MetricsDuration returns the compute_seconds histogram vector.
func MetricsDuration(m *Metrics) *prometheus.HistogramVec { return m.duration }
