package httpserver

import (
	"net/http"
	"time"
)

// New builds the service's HTTP server. Only the header read is bounded
// here: per-request deadlines belong to the router's timeout middleware,
// and a server-wide write timeout would sever the long-lived websocket
// subscriptions.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
