package fraud

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"geovote/internal/fraud/metrics"
	dErrors "geovote/pkg/domain-errors"
	"geovote/pkg/requestcontext"
)

// Service evaluates one vote for abuse and owns what happens to the
// findings: every produced event is persisted for audit and streamed to
// the security topic, whether or not the vote is blocked.
type Service struct {
	engine    *Engine
	store     Store
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewService constructs the fraud service. A nil publisher degrades to a
// noop; the engine and store are required.
func NewService(engine *Engine, store Store, publisher EventPublisher, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	if store == nil {
		return nil, errors.New("event store is required")
	}
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:    engine,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}, nil
}

// Evaluate runs all detectors and resolves the verdict. Detector failures
// degrade to missing signal; if every detector fails there is nothing to
// score, and the vote is treated as suspicious without being blocked.
func (s *Service) Evaluate(ctx context.Context, input Input) Evaluation {
	start := time.Now()
	defer func() {
		s.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	events, failed := s.engine.Run(ctx, input)

	if total := s.engine.Size(); total > 0 && failed == total {
		s.logger.ErrorContext(ctx, "all detectors failed, treating vote as suspicious",
			"match_id", input.MatchID,
			"detectors", total,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.IncrementOutcome("fail_closed")
		return Evaluation{Suspicious: true, ShouldReview: true}
	}

	eval := Resolve(events)
	for i := range eval.Events {
		if eval.ShouldReview {
			eval.Events[i].FlaggedForReview = true
		}
		// A blocked vote is never persisted, so its events must not
		// reference a vote row that will not exist.
		if eval.ShouldBlock {
			eval.Events[i].VoteID = nil
		}
	}

	s.recordEvents(ctx, eval)

	switch {
	case eval.ShouldBlock:
		s.metrics.IncrementOutcome("block")
	case eval.ShouldReview:
		s.metrics.IncrementOutcome("review")
	default:
		s.metrics.IncrementOutcome("allow")
	}

	if eval.Suspicious {
		s.logger.InfoContext(ctx, "vote evaluated as suspicious",
			"match_id", input.MatchID,
			"events", len(eval.Events),
			"score", eval.Score,
			"highest_severity", eval.HighestSeverity,
			"block", eval.ShouldBlock,
			"review", eval.ShouldReview,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return eval
}

// recordEvents persists and streams the findings. Losing the audit trail
// is logged loudly but never changes the vote's outcome.
func (s *Service) recordEvents(ctx context.Context, eval Evaluation) {
	if len(eval.Events) == 0 {
		return
	}

	if err := s.store.SaveAll(ctx, eval.Events); err != nil {
		s.logger.ErrorContext(ctx, "fraud event persistence failed",
			"events", len(eval.Events),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	for _, event := range eval.Events {
		s.metrics.IncrementEvent(string(event.Type), string(event.Severity))
		s.publisher.Publish(ctx, event)
	}
}

// ListEvents exposes the stored events to the review workbench.
func (s *Service) ListEvents(ctx context.Context, filter ListFilter) ([]Event, error) {
	return s.store.List(ctx, filter)
}

// ReviewEvent marks an event as reviewed by the given reviewer.
func (s *Service) ReviewEvent(ctx context.Context, eventID string, reviewer string) (*Event, error) {
	id, err := parseEventID(eventID)
	if err != nil {
		return nil, err
	}
	return s.store.MarkReviewed(ctx, id, reviewer)
}

func parseEventID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, dErrors.New(dErrors.CodeValidation, "invalid event id")
	}
	return id, nil
}
