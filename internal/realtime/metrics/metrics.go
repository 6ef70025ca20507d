package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the realtime broadcaster.
type Metrics struct {
	// Open websocket connections
	ConnectionsActive prometheus.Gauge

	// Frames enqueued to subscribers by event type
	EventsSent *prometheus.CounterVec

	// Connections refused by the per-address cap
	ConnectionsRejected prometheus.Counter

	// Subscribers dropped because their send buffer stayed full
	SlowConsumersDropped prometheus.Counter
}

// New creates a new Metrics instance with all realtime metrics registered.
func New() *Metrics {
	return &Metrics{
		ConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "geovote_realtime_connections_active",
			Help: "Currently open websocket connections",
		}),

		EventsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geovote_realtime_events_sent_total",
			Help: "Frames enqueued to subscribers by event type",
		}, []string{"type"}),

		ConnectionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "geovote_realtime_connections_rejected_total",
			Help: "Connections refused by the per-address cap",
		}),

		SlowConsumersDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "geovote_realtime_slow_consumers_dropped_total",
			Help: "Subscribers dropped because their send buffer stayed full",
		}),
	}
}

// ConnOpened records a registered connection.
func (m *Metrics) ConnOpened() {
	if m != nil {
		m.ConnectionsActive.Inc()
	}
}

// ConnClosed records an unregistered connection.
func (m *Metrics) ConnClosed() {
	if m != nil {
		m.ConnectionsActive.Dec()
	}
}

// EventEnqueued records frames handed to subscriber buffers.
func (m *Metrics) EventEnqueued(eventType string, n int) {
	if m != nil && n > 0 {
		m.EventsSent.WithLabelValues(eventType).Add(float64(n))
	}
}

// ConnRejected records a connection refused by the per-address cap.
func (m *Metrics) ConnRejected() {
	if m != nil {
		m.ConnectionsRejected.Inc()
	}
}

// SlowConsumerDropped records a subscriber dropped for not draining
// its buffer.
func (m *Metrics) SlowConsumerDropped() {
	if m != nil {
		m.SlowConsumersDropped.Inc()
	}
}
