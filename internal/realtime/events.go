// Package realtime fans vote, aggregate and stats events out to
// websocket subscribers grouped into per-match rooms.
package realtime

import (
	"time"

	"geovote/internal/aggregate"
)

// EventType discriminates the envelope's payload.
type EventType string

const (
	// EventSnapshot carries the stats and aggregate state a connection
	// receives when it joins a room, before any live events.
	EventSnapshot EventType = "snapshot"
	// EventVote announces a single admitted vote.
	EventVote EventType = "vote"
	// EventAggregate announces new counts for one location key.
	EventAggregate EventType = "aggregate"
	// EventStats carries a periodic full-stats snapshot.
	EventStats EventType = "stats"
	// EventPong answers a client ping.
	EventPong EventType = "pong"
	// EventError reports a rejected client action.
	EventError EventType = "error"
)

// Envelope is the frame sent to subscribers.
type Envelope struct {
	Type    EventType `json:"type"`
	MatchID string    `json:"match_id,omitempty"`
	Data    any       `json:"data,omitempty"`
}

// VotePayload is the body of an EventVote frame. Only the side and the
// coarse cell are exposed; identifiers never reach subscribers.
type VotePayload struct {
	Side      string    `json:"side"`
	Cell      string    `json:"cell"`
	Timestamp time.Time `json:"timestamp"`
}

// AggregatePayload is the body of an EventAggregate frame, one per
// updated location key.
type AggregatePayload struct {
	Kind        aggregate.Kind `json:"kind"`
	LocationKey string         `json:"location_key"`
	Resolution  int            `json:"resolution,omitempty"`
	SideA       int64          `json:"side_a"`
	SideB       int64          `json:"side_b"`
	Total       int64          `json:"total"`
}

// SnapshotPayload is the body of an EventSnapshot frame.
type SnapshotPayload struct {
	Stats      aggregate.Stats       `json:"stats"`
	Aggregates []aggregate.Aggregate `json:"aggregates"`
}

// errorPayload is the body of an EventError frame.
type errorPayload struct {
	Message string `json:"message"`
}

// Client actions accepted on the read side of a connection.
const (
	actionJoin  = "join"
	actionLeave = "leave"
	actionPing  = "ping"
)

// clientMessage is what subscribers send us.
type clientMessage struct {
	Action  string `json:"action"`
	MatchID string `json:"match_id,omitempty"`
}
