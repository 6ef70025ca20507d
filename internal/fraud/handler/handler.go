// Package handler exposes the fraud review workbench: reviewers list the
// stored detector findings and mark them as handled. All routes sit behind
// reviewer authentication.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"geovote/internal/fraud"
	dErrors "geovote/pkg/domain-errors"
	"geovote/pkg/platform/httputil"
	"geovote/pkg/platform/sentinel"
	"geovote/pkg/requestcontext"
)

// Service defines the interface for review operations.
type Service interface {
	ListEvents(ctx context.Context, filter fraud.ListFilter) ([]fraud.Event, error)
	ReviewEvent(ctx context.Context, eventID string, reviewer string) (*fraud.Event, error)
}

// Handler wires review endpoints to the fraud service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a review handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts review endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/fraud/events", h.HandleListEvents)
	r.Post("/fraud/events/{id}/review", h.HandleReviewEvent)
}

// HandleListEvents handles GET /fraud/events requests.
func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if requestcontext.ReviewerID(ctx) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "reviewer authentication required"))
		return
	}

	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.service.ListEvents(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "fraud event listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "could not list events"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEvents(events))
}

// HandleReviewEvent handles POST /fraud/events/{id}/review requests.
func (h *Handler) HandleReviewEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	reviewer := requestcontext.ReviewerID(ctx)
	if reviewer == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "reviewer authentication required"))
		return
	}

	eventID := chi.URLParam(r, "id")
	event, err := h.service.ReviewEvent(ctx, eventID, reviewer)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "event not found"))
			return
		}
		if dErrors.CodeOf(err) != dErrors.CodeInternal {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "fraud event review failed",
			"request_id", requestID,
			"event_id", eventID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "could not review event"))
		return
	}

	h.logger.InfoContext(ctx, "fraud event reviewed",
		"request_id", requestID,
		"event_id", eventID,
		"reviewer", reviewer,
	)

	httputil.WriteJSON(w, http.StatusOK, FromEvent(*event))
}
