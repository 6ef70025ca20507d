// Package http assembles the service's HTTP surface: the public voting
// API, the reviewer-only fraud workbench, the websocket endpoint, and the
// operational endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fraudhandler "geovote/internal/fraud/handler"
	"geovote/internal/platform/metrics"
	"geovote/internal/platform/middleware"
	ratelimitmw "geovote/internal/ratelimit/middleware"
	"geovote/internal/realtime"
	votehandler "geovote/internal/vote/handler"
)

// requestTimeout bounds API requests. The websocket endpoint is mounted
// outside this limit; its connections are meant to live for the whole
// match.
const requestTimeout = 15 * time.Second

// Deps collects everything the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TokenValidator middleware.TokenValidator

	VoteHandler  *votehandler.Handler
	FraudHandler *fraudhandler.Handler
	WSHandler    *realtime.Handler
	APILimiter   *ratelimitmw.Middleware
}

// NewRouter builds the full route tree with the standard middleware chain.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.LatencyMiddleware(deps.Metrics))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Long-lived subscriber connections: no request timeout, but the
	// general API limiter still gates the upgrade handshake.
	r.Group(func(r chi.Router) {
		if deps.APILimiter != nil {
			r.Use(deps.APILimiter.Limit)
		}
		deps.WSHandler.Register(r)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.ContentTypeJSON)
		if deps.APILimiter != nil {
			r.Use(deps.APILimiter.Limit)
		}

		deps.VoteHandler.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireReviewer(deps.TokenValidator, deps.Logger))
			deps.FraudHandler.Register(r)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
