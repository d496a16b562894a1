// SPDX-License-Identifier: MIT

package calculator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus series about computations. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	pairs    prometheus.Counter
}

// NewMetrics registers the lvatoms_* series on reg. Like MustRegister, it
// panics when the series are already registered on reg.
//   - lvatoms_compute_seconds{calculator}: wall time of Compute.
//   - lvatoms_compute_total{calculator,status}: calls, status "ok" or "error".
//   - lvatoms_neighbor_pairs_total: neighbor pairs consumed.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lvatoms",
			Name:      "compute_seconds",
			Help:      "Wall time of one Compute call in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		}, []string{"calculator"}),
		total: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lvatoms",
			Name:      "compute_total",
			Help:      "Compute calls by calculator and status",
		}, []string{"calculator", "status"}),
		pairs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lvatoms",
			Name:      "neighbor_pairs_total",
			Help:      "Neighbor pairs consumed by computations",
		}),
	}
}

func (m *Metrics) observe(kind string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	m.total.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) addPairs(n int) {
	if m == nil {
		return
	}
	m.pairs.Add(float64(n))
}
