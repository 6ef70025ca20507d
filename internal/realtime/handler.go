package realtime

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"geovote/pkg/platform/httputil"
	"geovote/pkg/requestcontext"
)

// Handler upgrades viewer connections and hands them to the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler constructs the websocket endpoint. The viewer widget is
// embedded on third-party pages, so cross-origin upgrades are expected.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Register mounts the websocket endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/ws", h.HandleWS)
}

// HandleWS handles GET /ws upgrade requests. The address slot is reserved
// before the upgrade so a capped client gets a clean HTTP rejection
// instead of an immediately-closed socket.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceIP := requestcontext.ClientIP(ctx)

	conn, err := h.hub.Register(sourceIP)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Unregister(conn)
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}

	// If the client named a match up front, join it before the pumps
	// start so the snapshot is the first frame it receives.
	if matchID := r.URL.Query().Get("match_id"); matchID != "" {
		if err := h.hub.Join(ctx, conn, matchID); err != nil {
			h.logger.WarnContext(ctx, "initial room join failed",
				"match_id", matchID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}

	// Serve blocks for the connection's lifetime. The context is detached
	// from the request deadline: a long-lived socket outlives any HTTP
	// timeout, but snapshot reads still want the request-scoped values.
	conn.Serve(context.WithoutCancel(ctx), sock)
}
