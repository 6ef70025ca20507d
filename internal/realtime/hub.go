package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"geovote/internal/aggregate"
	"geovote/internal/realtime/metrics"
	dErrors "geovote/pkg/domain-errors"
	"geovote/pkg/platform/sentinel"
)

// defaultMaxConnsPerIP caps how many concurrent connections one source
// address may hold.
const defaultMaxConnsPerIP = 10

// SnapshotSource supplies the state a connection receives when it joins a
// room. The aggregate query service satisfies it, so snapshots go through
// the same short-TTL cache as HTTP reads.
type SnapshotSource interface {
	Aggregates(ctx context.Context, matchID string) ([]aggregate.Aggregate, error)
	Stats(ctx context.Context, matchID string) (aggregate.Stats, error)
}

// Hub is the subscriber registry: every open connection, the per-match
// rooms they joined, and the per-source-address budget. All membership
// changes are deterministic: unregistering a connection frees its address
// slot and every room membership in one step, whether the client left
// politely or its transport died.
type Hub struct {
	snapshots SnapshotSource
	logger    *slog.Logger
	metrics   *metrics.Metrics

	maxConnsPerIP int
	sendBuffer    int

	mu     sync.Mutex
	closed bool
	conns  map[*Conn]struct{}
	rooms  map[string]map[*Conn]struct{}
	perIP  map[string]int
}

// HubOption configures the hub.
type HubOption func(*Hub)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics attaches realtime metrics.
func WithMetrics(m *metrics.Metrics) HubOption {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithMaxConnsPerIP overrides the per-source connection cap.
func WithMaxConnsPerIP(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.maxConnsPerIP = n
		}
	}
}

// NewHub constructs the hub. The snapshot source is required: a room join
// without an initial snapshot would leave the viewer blank until the next
// vote.
func NewHub(snapshots SnapshotSource, opts ...HubOption) (*Hub, error) {
	if snapshots == nil {
		return nil, errors.New("snapshot source is required")
	}

	h := &Hub{
		snapshots:     snapshots,
		logger:        slog.Default(),
		maxConnsPerIP: defaultMaxConnsPerIP,
		sendBuffer:    defaultSendBuffer,
		conns:         make(map[*Conn]struct{}),
		rooms:         make(map[string]map[*Conn]struct{}),
		perIP:         make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Register admits a new connection for the given source address, reserving
// its slot before any transport work happens. Exceeding the per-address
// cap is an explicit rejection, never a silent queue.
func (h *Hub) Register(sourceIP string) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, sentinel.ErrClosed
	}
	if h.perIP[sourceIP] >= h.maxConnsPerIP {
		h.metrics.ConnRejected()
		return nil, dErrors.New(dErrors.CodeRateLimited, "too many connections from this address")
	}

	conn := newConn(h, sourceIP, h.sendBuffer)
	h.conns[conn] = struct{}{}
	h.perIP[sourceIP]++
	h.metrics.ConnOpened()
	return conn, nil
}

// Unregister removes the connection from every room, frees its address
// slot, and closes its send channel. Idempotent: the read pump, the write
// pump, and the handler may all race to call it.
func (h *Hub) Unregister(conn *Conn) {
	h.mu.Lock()

	if _, ok := h.conns[conn]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, conn)

	for matchID := range conn.rooms {
		h.removeFromRoom(conn, matchID)
	}

	h.perIP[conn.sourceIP]--
	if h.perIP[conn.sourceIP] <= 0 {
		delete(h.perIP, conn.sourceIP)
	}
	h.metrics.ConnClosed()
	h.mu.Unlock()

	conn.closeSend()
}

// Join subscribes the connection to a match room. The joining connection
// receives a snapshot of the current stats and aggregates before it is
// added to the room, so it never observes a live event it lacks the
// baseline for.
func (h *Hub) Join(ctx context.Context, conn *Conn, matchID string) error {
	if matchID == "" {
		return dErrors.New(dErrors.CodeValidation, "match id is required")
	}

	snapshot := h.buildSnapshot(ctx, matchID)
	if !conn.enqueue(Envelope{Type: EventSnapshot, MatchID: matchID, Data: snapshot}) {
		h.dropSlowConsumer(conn)
		return sentinel.ErrClosed
	}
	h.metrics.EventEnqueued(string(EventSnapshot), 1)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn]; !ok {
		return sentinel.ErrClosed
	}
	room, ok := h.rooms[matchID]
	if !ok {
		room = make(map[*Conn]struct{})
		h.rooms[matchID] = room
	}
	room[conn] = struct{}{}
	conn.rooms[matchID] = struct{}{}
	return nil
}

// Leave unsubscribes the connection from a match room.
func (h *Hub) Leave(conn *Conn, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(conn, matchID)
}

// removeFromRoom must run under h.mu.
func (h *Hub) removeFromRoom(conn *Conn, matchID string) {
	delete(conn.rooms, matchID)
	room, ok := h.rooms[matchID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, matchID)
	}
}

// buildSnapshot reads the current state for a match. Either read failing
// degrades that half of the snapshot to its zero value; viewers catch up
// from live events.
func (h *Hub) buildSnapshot(ctx context.Context, matchID string) SnapshotPayload {
	var snapshot SnapshotPayload

	stats, err := h.snapshots.Stats(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "snapshot stats read failed",
			"match_id", matchID,
			"error", err,
		)
	} else {
		snapshot.Stats = stats
	}

	aggregates, err := h.snapshots.Aggregates(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "snapshot aggregates read failed",
			"match_id", matchID,
			"error", err,
		)
	} else {
		snapshot.Aggregates = aggregates
	}
	return snapshot
}

// BroadcastVote announces one admitted vote to the match's subscribers.
func (h *Hub) BroadcastVote(matchID string, payload VotePayload) {
	h.broadcast(matchID, Envelope{Type: EventVote, MatchID: matchID, Data: payload})
}

// BroadcastAggregate announces refreshed counts for one location key.
func (h *Hub) BroadcastAggregate(matchID string, payload AggregatePayload) {
	h.broadcast(matchID, Envelope{Type: EventAggregate, MatchID: matchID, Data: payload})
}

// BroadcastStats pushes a full stats snapshot to the match's subscribers.
func (h *Hub) BroadcastStats(matchID string, stats aggregate.Stats) {
	h.broadcast(matchID, Envelope{Type: EventStats, MatchID: matchID, Data: stats})
}

// broadcast enqueues the envelope to every room member. A subscriber whose
// buffer stays full is dropped rather than allowed to stall the others;
// per-connection failures never abort the fan-out.
func (h *Hub) broadcast(matchID string, envelope Envelope) {
	h.mu.Lock()
	room := h.rooms[matchID]
	members := make([]*Conn, 0, len(room))
	for conn := range room {
		members = append(members, conn)
	}
	h.mu.Unlock()

	var delivered int
	for _, conn := range members {
		if conn.enqueue(envelope) {
			delivered++
			continue
		}
		h.dropSlowConsumer(conn)
	}
	h.metrics.EventEnqueued(string(envelope.Type), delivered)
}

func (h *Hub) dropSlowConsumer(conn *Conn) {
	h.metrics.SlowConsumerDropped()
	h.logger.Warn("dropping slow realtime subscriber",
		"source_ip", conn.sourceIP,
	)
	h.Unregister(conn)
}

// ActiveRooms lists the matches that currently have subscribers.
func (h *Hub) ActiveRooms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms := make([]string, 0, len(h.rooms))
	for matchID := range h.rooms {
		rooms = append(rooms, matchID)
	}
	return rooms
}

// ConnsForIP reports how many connections a source address currently
// holds.
func (h *Hub) ConnsForIP(sourceIP string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.perIP[sourceIP]
}

// Run blocks until the context ends, then closes every connection. Used as
// the hub's slot in the server's run group.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	h.Close()
	return ctx.Err()
}

// Close rejects future registrations and unregisters every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	conns := make([]*Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.Unregister(conn)
	}
}
