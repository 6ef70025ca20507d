package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the aggregate module.
type Metrics struct {
	// Applied increments by kind (cell, country)
	IncrementsTotal *prometheus.CounterVec

	// Increment round-trip latency
	IncrementLatency prometheus.Histogram

	// Cache outcomes by read kind (aggregates, stats): hit, miss, error
	CacheReadsTotal *prometheus.CounterVec

	// Invalidation failures (absorbed; reads degrade to the store)
	InvalidateFailures prometheus.Counter
}

// New creates a new Metrics instance with all aggregate module metrics registered.
func New() *Metrics {
	return &Metrics{
		IncrementsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_aggregate_increments_total",
			Help: "Total counter increments applied by kind",
		}, []string{"kind"}),

		IncrementLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "geovote_aggregate_increment_duration_seconds",
			Help:    "Duration of one vote's aggregate increments",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		CacheReadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_aggregate_cache_reads_total",
			Help: "Cache read outcomes by kind and result",
		}, []string{"kind", "result"}),

		InvalidateFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "geovote_aggregate_invalidate_failures_total",
			Help: "Cache invalidations that failed and were absorbed",
		}),
	}
}

// IncrementApplied records one applied increment.
func (m *Metrics) IncrementApplied(kind string) {
	if m != nil {
		m.IncrementsTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveIncrementLatency records the duration of one vote's increments.
func (m *Metrics) ObserveIncrementLatency(d time.Duration) {
	if m != nil {
		m.IncrementLatency.Observe(d.Seconds())
	}
}

// CacheRead records a cache read outcome.
func (m *Metrics) CacheRead(kind, result string) {
	if m != nil {
		m.CacheReadsTotal.WithLabelValues(kind, result).Inc()
	}
}

// IncrementInvalidateFailure records an absorbed invalidation failure.
func (m *Metrics) IncrementInvalidateFailure() {
	if m != nil {
		m.InvalidateFailures.Inc()
	}
}
