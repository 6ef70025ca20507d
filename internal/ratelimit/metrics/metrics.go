package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksTotal   *prometheus.CounterVec
	FailOpenTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_ratelimit_checks_total",
			Help: "Total number of admission checks by purpose and outcome",
		}, []string{"purpose", "outcome"}),
		FailOpenTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_ratelimit_fail_open_total",
			Help: "Total number of admissions granted because the counting store was unreachable",
		}, []string{"purpose"}),
	}
}

func (m *Metrics) RecordCheck(purpose, outcome string) {
	m.ChecksTotal.WithLabelValues(purpose, outcome).Inc()
}

func (m *Metrics) RecordFailOpen(purpose string) {
	m.FailOpenTotal.WithLabelValues(purpose).Inc()
}
