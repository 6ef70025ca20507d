package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"geovote/internal/aggregate"
)

func TestStatsWorkerPushesToActiveRooms(t *testing.T) {
	snapshots := &stubSnapshots{
		stats: aggregate.Stats{MatchID: "match-1", Total: 42, SideA: 30, SideB: 12},
	}
	hub := newTestHub(t, snapshots)
	worker := NewStatsWorker(hub, snapshots, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	conn, err := hub.Register("203.0.113.7")
	require.NoError(t, err)
	require.NoError(t, hub.Join(context.Background(), conn, "match-1"))
	receive(t, conn) // snapshot

	worker.tick(context.Background())

	envelope := receive(t, conn)
	require.Equal(t, EventStats, envelope.Type)
	require.Equal(t, "match-1", envelope.MatchID)
	stats, ok := envelope.Data.(aggregate.Stats)
	require.True(t, ok)
	require.Equal(t, int64(42), stats.Total)
}

func TestStatsWorkerSkipsRoomOnReadFailure(t *testing.T) {
	snapshots := &stubSnapshots{}
	hub := newTestHub(t, snapshots)
	worker := NewStatsWorker(hub, snapshots, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	conn, err := hub.Register("203.0.113.7")
	require.NoError(t, err)
	require.NoError(t, hub.Join(context.Background(), conn, "match-1"))
	receive(t, conn) // snapshot

	snapshots.statsErr = errors.New("store unavailable")
	worker.tick(context.Background())

	select {
	case envelope := <-conn.send:
		t.Fatalf("unexpected envelope %q after failed stats read", envelope.Type)
	default:
	}
}

func TestStatsWorkerStopsWithContext(t *testing.T) {
	hub := newTestHub(t, &stubSnapshots{})
	worker := NewStatsWorker(hub, &stubSnapshots{}, time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
