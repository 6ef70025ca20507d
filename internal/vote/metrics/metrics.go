package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the vote ingestion pipeline.
type Metrics struct {
	// Submissions by terminal outcome (accepted, rate_limited, blocked,
	// rejected, failed)
	SubmissionsTotal *prometheus.CounterVec

	// End-to-end pipeline latency for accepted votes
	PipelineDuration prometheus.Histogram
}

// New creates a new Metrics instance with all vote metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_vote_submissions_total",
			Help: "Vote submissions by terminal outcome",
		}, []string{"outcome"}),

		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "geovote_vote_pipeline_duration_seconds",
			Help:    "End-to-end pipeline latency for accepted votes",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementOutcome records a submission's terminal outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.SubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

// ObservePipelineLatency records one accepted vote's pipeline duration.
func (m *Metrics) ObservePipelineLatency(d time.Duration) {
	if m != nil {
		m.PipelineDuration.Observe(d.Seconds())
	}
}
