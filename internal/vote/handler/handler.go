// Package handler exposes the public voting API: submitting a vote for a
// match and reading its aggregate counters and summary stats.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"geovote/internal/aggregate"
	"geovote/internal/vote"
	dErrors "geovote/pkg/domain-errors"
	"geovote/pkg/platform/httputil"
	"geovote/pkg/requestcontext"
)

// Pipeline is the vote ingestion entrypoint.
type Pipeline interface {
	Submit(ctx context.Context, sub vote.Submission) (*vote.Receipt, error)
}

// Queries serves the read side: counters and stats behind the short-TTL
// cache.
type Queries interface {
	Aggregates(ctx context.Context, matchID string) ([]aggregate.Aggregate, error)
	Stats(ctx context.Context, matchID string) (aggregate.Stats, error)
}

// Handler wires the voting endpoints to the pipeline and query services.
type Handler struct {
	pipeline Pipeline
	queries  Queries
	logger   *slog.Logger
}

// New constructs a vote handler with its dependencies.
func New(pipeline Pipeline, queries Queries, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		queries:  queries,
		logger:   logger,
	}
}

// Register mounts the voting endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/matches/{matchID}/votes", h.HandleSubmitVote)
	r.Get("/matches/{matchID}/aggregates", h.HandleListAggregates)
	r.Get("/matches/{matchID}/stats", h.HandleStats)
}

// HandleSubmitVote handles POST /matches/{matchID}/votes requests.
func (h *Handler) HandleSubmitVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sub, err := decodeSubmission(r, chi.URLParam(r, "matchID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipt, err := h.pipeline.Submit(ctx, sub)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "vote submission failed",
				"match_id", sub.MatchID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromReceipt(*receipt))
}

// HandleListAggregates handles GET /matches/{matchID}/aggregates requests.
func (h *Handler) HandleListAggregates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID := chi.URLParam(r, "matchID")

	aggregates, err := h.queries.Aggregates(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "aggregate listing failed",
			"match_id", matchID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListAggregatesResponse{
		MatchID:    matchID,
		Aggregates: aggregates,
		Count:      len(aggregates),
	})
}

// HandleStats handles GET /matches/{matchID}/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID := chi.URLParam(r, "matchID")

	stats, err := h.queries.Stats(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "stats read failed",
			"match_id", matchID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}
