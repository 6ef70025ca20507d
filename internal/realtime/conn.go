package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/google/uuid"
)

const (
	// defaultSendBuffer is how many frames may queue per subscriber before
	// it counts as a slow consumer.
	defaultSendBuffer = 64

	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// presumed dead; pings go out at a fraction of it.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound client messages; join/leave frames
	// are tiny.
	maxMessageSize = 512
)

// Conn is one subscriber connection. The hub owns its registry state
// (rooms, address slot); the pumps own the websocket itself. Events are
// handed over through the buffered send channel, so a stalling socket
// never blocks a broadcast.
type Conn struct {
	id       string
	sourceIP string
	hub      *Hub

	send      chan Envelope
	closeOnce sync.Once

	// rooms is guarded by hub.mu, not by the connection.
	rooms map[string]struct{}
}

func newConn(hub *Hub, sourceIP string, buffer int) *Conn {
	return &Conn{
		id:       uuid.NewString(),
		sourceIP: sourceIP,
		hub:      hub,
		send:     make(chan Envelope, buffer),
		rooms:    make(map[string]struct{}),
	}
}

// ID returns the connection's identifier, used only for logging.
func (c *Conn) ID() string { return c.id }

// enqueue hands an envelope to the write pump without blocking. A false
// return means the buffer is full or the connection is closed.
func (c *Conn) enqueue(envelope Envelope) (ok bool) {
	defer func() {
		// Losing a race with closeSend is a normal disconnect, not a
		// failure worth propagating.
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case c.send <- envelope:
		return true
	default:
		return false
	}
}

// closeSend ends the write pump. Safe to call repeatedly.
func (c *Conn) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Serve runs both pumps over the upgraded socket and blocks until the
// connection dies, voluntarily or not. The deferred unregister is what
// guarantees no membership or address slot outlives the transport.
func (c *Conn) Serve(ctx context.Context, sock *websocket.Conn) {
	defer c.hub.Unregister(c)
	defer sock.Close()

	go c.writePump(sock)
	c.readPump(ctx, sock)
}

// readPump consumes client messages: join, leave, ping. Any read error,
// including the client vanishing, ends the connection.
func (c *Conn) readPump(ctx context.Context, sock *websocket.Conn) {
	sock.SetReadLimit(maxMessageSize)
	_ = sock.SetReadDeadline(time.Now().Add(pongWait))
	sock.SetPongHandler(func(string) error {
		return sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := sock.ReadJSON(&msg); err != nil {
			return
		}
		_ = sock.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Action {
		case actionJoin:
			if err := c.hub.Join(ctx, c, msg.MatchID); err != nil {
				c.enqueue(Envelope{Type: EventError, MatchID: msg.MatchID, Data: errorPayload{Message: "could not join match"}})
			}
		case actionLeave:
			c.hub.Leave(c, msg.MatchID)
		case actionPing:
			c.enqueue(Envelope{Type: EventPong})
		default:
			c.enqueue(Envelope{Type: EventError, Data: errorPayload{Message: "unknown action"}})
		}
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with pings. It exits when the channel closes (hub
// unregistered us) or a write fails.
func (c *Conn) writePump(sock *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer sock.Close()

	for {
		select {
		case envelope, open := <-c.send:
			_ = sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				_ = sock.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := sock.WriteJSON(envelope); err != nil {
				return
			}
		case <-ticker.C:
			_ = sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
