package realtime

import (
	"context"
	"log/slog"
	"time"
)

// defaultStatsInterval is how often active rooms receive a fresh stats
// snapshot.
const defaultStatsInterval = 10 * time.Second

// StatsWorker periodically pushes a full stats snapshot to every room that
// has subscribers. Reads go through the snapshot source, which is the
// cached query service, so the worker never hammers the durable store.
type StatsWorker struct {
	hub      *Hub
	source   SnapshotSource
	interval time.Duration
	logger   *slog.Logger
}

// NewStatsWorker constructs the worker. A non-positive interval falls back
// to the default.
func NewStatsWorker(hub *Hub, source SnapshotSource, interval time.Duration, logger *slog.Logger) *StatsWorker {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsWorker{
		hub:      hub,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Run broadcasts until the context ends.
func (w *StatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick pushes one stats round. A failed read skips that room for this
// round; the next tick tries again.
func (w *StatsWorker) tick(ctx context.Context) {
	for _, matchID := range w.hub.ActiveRooms() {
		stats, err := w.source.Stats(ctx, matchID)
		if err != nil {
			w.logger.WarnContext(ctx, "stats broadcast read failed",
				"match_id", matchID,
				"error", err,
			)
			continue
		}
		w.hub.BroadcastStats(matchID, stats)
	}
}
