package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the fraud module.
type Metrics struct {
	// Per-detector latencies
	DetectorLatency *prometheus.HistogramVec

	// Per-detector failures (absorbed, not surfaced)
	DetectorFailures *prometheus.CounterVec

	// Findings by type and severity
	EventsTotal *prometheus.CounterVec

	// Evaluation outcomes: allow, review, block, fail_closed
	OutcomesTotal *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all fraud module metrics registered.
func New() *Metrics {
	return &Metrics{
		DetectorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geovote_fraud_detector_duration_seconds",
			Help:    "Duration of individual detector runs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"detector"}),

		DetectorFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_fraud_detector_failures_total",
			Help: "Total detector runs that errored and were treated as no signal",
		}, []string{"detector"}),

		EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_fraud_events_total",
			Help: "Total fraud events produced by type and severity",
		}, []string{"type", "severity"}),

		OutcomesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_fraud_outcomes_total",
			Help: "Total evaluation outcomes",
		}, []string{"outcome"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "geovote_fraud_evaluate_duration_seconds",
			Help:    "Duration of full fraud evaluation including all detectors",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveDetectorLatency records the duration of one detector run.
func (m *Metrics) ObserveDetectorLatency(detector string, d time.Duration) {
	if m != nil {
		m.DetectorLatency.WithLabelValues(detector).Observe(d.Seconds())
	}
}

// IncrementDetectorFailure records a detector error.
func (m *Metrics) IncrementDetectorFailure(detector string) {
	if m != nil {
		m.DetectorFailures.WithLabelValues(detector).Inc()
	}
}

// IncrementEvent records a produced fraud event.
func (m *Metrics) IncrementEvent(eventType, severity string) {
	if m != nil {
		m.EventsTotal.WithLabelValues(eventType, severity).Inc()
	}
}

// IncrementOutcome records an evaluation outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.OutcomesTotal.WithLabelValues(outcome).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
