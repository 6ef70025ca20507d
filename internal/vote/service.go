package vote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"geovote/internal/aggregate"
	"geovote/internal/challenge"
	"geovote/internal/fraud"
	"geovote/internal/geo"
	"geovote/internal/identity"
	"geovote/internal/iplookup"
	"geovote/internal/match"
	"geovote/internal/pattern"
	"geovote/internal/ratelimit/models"
	"geovote/internal/realtime"
	"geovote/internal/vote/metrics"
	dErrors "geovote/pkg/domain-errors"
	"geovote/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/service-mocks.go -package=mocks Gate,Limiter,Tracker,Evaluator,Counter,Broadcaster

// Gate confirms a match accepts votes and supplies its configured limits.
type Gate interface {
	Admit(ctx context.Context, matchID string) (*match.Match, error)
}

// Limiter is the admission control facade.
type Limiter interface {
	Admit(ctx context.Context, purpose models.Purpose, identifier, scope string) (*models.Result, error)
	AdmitWithLimit(ctx context.Context, purpose models.Purpose, identifier, scope string, limit int) (*models.Result, error)
}

// Tracker records the vote's behavioral trail before detection runs.
type Tracker interface {
	RecordVote(ctx context.Context, trail pattern.VoteTrail)
}

// Evaluator scores the vote for abuse.
type Evaluator interface {
	Evaluate(ctx context.Context, input fraud.Input) fraud.Evaluation
}

// Counter applies an admitted vote to the aggregate counters.
type Counter interface {
	Apply(ctx context.Context, inc aggregate.Increment) (aggregate.Result, error)
}

// Broadcaster fans admitted votes out to match subscribers.
type Broadcaster interface {
	BroadcastVote(matchID string, payload realtime.VotePayload)
	BroadcastAggregate(matchID string, payload realtime.AggregatePayload)
}

// Service runs the full ingestion pipeline for one vote: gate, challenge,
// admission, tracking, detection, persistence, counting, fan-out.
type Service struct {
	gate        Gate
	limiter     Limiter
	hasher      *identity.Hasher
	tracker     Tracker
	evaluator   Evaluator
	votes       Store
	counters    Counter
	verifier    challenge.Verifier
	broadcaster Broadcaster
	resolver    iplookup.Resolver
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// Option configures the service.
type Option func(*Service)

// WithVerifier sets the bot-challenge verifier. Without one, matches that
// require verification reject all votes.
func WithVerifier(v challenge.Verifier) Option {
	return func(s *Service) {
		if v != nil {
			s.verifier = v
		}
	}
}

// WithBroadcaster attaches realtime fan-out.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) {
		s.broadcaster = b
	}
}

// WithResolver enables deriving a country for votes that declare none.
func WithResolver(r iplookup.Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService constructs the pipeline. All positional collaborators are
// required; optional ones (verifier, broadcaster, resolver) arrive as
// options.
func NewService(gate Gate, limiter Limiter, hasher *identity.Hasher, tracker Tracker, evaluator Evaluator, votes Store, counters Counter, opts ...Option) (*Service, error) {
	switch {
	case gate == nil:
		return nil, errors.New("match gate is required")
	case limiter == nil:
		return nil, errors.New("rate limiter is required")
	case hasher == nil:
		return nil, errors.New("identity hasher is required")
	case tracker == nil:
		return nil, errors.New("pattern tracker is required")
	case evaluator == nil:
		return nil, errors.New("fraud evaluator is required")
	case votes == nil:
		return nil, errors.New("vote store is required")
	case counters == nil:
		return nil, errors.New("aggregate counter is required")
	}

	s := &Service{
		gate:      gate,
		limiter:   limiter,
		hasher:    hasher,
		tracker:   tracker,
		evaluator: evaluator,
		votes:     votes,
		counters:  counters,
		logger:    slog.Default(),
		tracer:    otel.Tracer("geovote/vote"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Submit runs one vote through the pipeline. The returned error is always
// coded: rate_limited and validation errors are the caller's to fix,
// forbidden is a policy rejection that reveals nothing about why, and
// unavailable invites a retry.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "vote.submit",
		trace.WithAttributes(attribute.String("match.id", sub.MatchID)))
	defer span.End()

	start := time.Now()

	if err := sub.Validate(); err != nil {
		s.metrics.IncrementOutcome("rejected")
		return nil, err
	}

	m, err := s.admit(ctx, &sub)
	if err != nil {
		return nil, err
	}

	clientIP := requestcontext.ClientIP(ctx)
	fingerprintHash := s.hasher.HashFingerprint(sub.Fingerprint)
	ipHash := s.hasher.HashIP(clientIP)

	if err := s.checkLimits(ctx, m, sub.MatchID, fingerprintHash, ipHash); err != nil {
		return nil, err
	}

	voteID := uuid.New()
	now := requestcontext.Now(ctx)

	// Tracking and detection run detached from the request: an aborted
	// caller must not leave half a trail behind, and the vote under
	// evaluation has to see its own writes the way future votes will.
	detached := context.WithoutCancel(ctx)

	trail := pattern.VoteTrail{
		MatchID:         sub.MatchID,
		FingerprintHash: fingerprintHash,
		IPHash:          ipHash,
		At:              now,
	}
	if sub.Coordinates != nil {
		trail.ExactCoordKey = geo.ExactKey(sub.Coordinates.Lat, sub.Coordinates.Lon)
	}

	_, trackSpan := s.tracer.Start(detached, "vote.track")
	s.tracker.RecordVote(detached, trail)
	trackSpan.End()

	detectCtx, detectSpan := s.tracer.Start(detached, "vote.detect")
	eval := s.evaluator.Evaluate(detectCtx, fraud.Input{
		MatchID:         sub.MatchID,
		VoteID:          voteID,
		FingerprintHash: fingerprintHash,
		IPHash:          ipHash,
		ClientIP:        clientIP,
		UserAgent:       requestcontext.UserAgent(ctx),
		DeviceLocation:  sub.Coordinates,
		At:              now,
	})
	detectSpan.End()

	if eval.ShouldBlock {
		s.metrics.IncrementOutcome("blocked")
		s.logger.InfoContext(ctx, "vote blocked by fraud policy",
			"match_id", sub.MatchID,
			"score", eval.Score,
			"request_id", requestcontext.RequestID(ctx),
		)
		// The caller learns only that the vote was not accepted, never
		// which detector fired.
		return nil, dErrors.New(dErrors.CodeForbidden, "vote was not accepted")
	}

	record := Vote{
		ID:              voteID,
		MatchID:         sub.MatchID,
		Side:            sub.Side,
		FingerprintHash: fingerprintHash,
		IPHash:          ipHash,
		Cell:            sub.Cell,
		Resolution:      sub.Resolution,
		CountryCode:     s.countryFor(ctx, &sub, clientIP),
		Coordinates:     sub.Coordinates,
		LocationSource:  sub.LocationSource,
		CreatedAt:       now,
	}

	persistCtx, persistSpan := s.tracer.Start(ctx, "vote.persist")
	err = s.votes.Insert(persistCtx, record)
	persistSpan.End()
	if err != nil {
		s.metrics.IncrementOutcome("failed")
		s.logger.ErrorContext(ctx, "vote persistence failed",
			"match_id", sub.MatchID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "vote could not be recorded")
	}

	countCtx, countSpan := s.tracer.Start(ctx, "vote.count")
	result, err := s.counters.Apply(countCtx, aggregate.Increment{
		MatchID:     sub.MatchID,
		Side:        sub.Side,
		Cell:        sub.Cell,
		Resolution:  sub.Resolution,
		CountryCode: record.CountryCode,
	})
	countSpan.End()
	if err != nil {
		s.metrics.IncrementOutcome("failed")
		return nil, err
	}

	s.fanout(detached, record, result)

	s.metrics.IncrementOutcome("accepted")
	s.metrics.ObservePipelineLatency(time.Since(start))
	return &Receipt{
		VoteID:     voteID,
		MatchID:    sub.MatchID,
		Side:       sub.Side,
		Cell:       sub.Cell,
		CellCounts: result.Cell,
		CreatedAt:  now,
	}, nil
}

// admit checks the match gate and, when the match demands it, the bot
// challenge. An unreachable verifier is a dependency fault the caller may
// retry, not a policy rejection.
func (s *Service) admit(ctx context.Context, sub *Submission) (*match.Match, error) {
	ctx, span := s.tracer.Start(ctx, "vote.admit")
	defer span.End()

	m, err := s.gate.Admit(ctx, sub.MatchID)
	if err != nil {
		s.metrics.IncrementOutcome("rejected")
		return nil, err
	}

	if m.RequireVerification {
		if s.verifier == nil {
			s.metrics.IncrementOutcome("rejected")
			return nil, dErrors.New(dErrors.CodeUnavailable, "verification is required but not configured")
		}
		if err := s.verifier.Verify(ctx, sub.ChallengeToken, requestcontext.ClientIP(ctx)); err != nil {
			s.metrics.IncrementOutcome("rejected")
			return nil, err
		}
	}
	return m, nil
}

// checkLimits runs both vote limiters. The fingerprint budget comes from
// the match row when it sets one; the IP budget is global configuration.
func (s *Service) checkLimits(ctx context.Context, m *match.Match, matchID, fingerprintHash, ipHash string) error {
	ctx, span := s.tracer.Start(ctx, "vote.ratelimit")
	defer span.End()

	var (
		result *models.Result
		err    error
	)
	if m.VoteLimit > 0 {
		result, err = s.limiter.AdmitWithLimit(ctx, models.PurposeVoteFingerprint, fingerprintHash, matchID, m.VoteLimit)
	} else {
		result, err = s.limiter.Admit(ctx, models.PurposeVoteFingerprint, fingerprintHash, matchID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "admission check failed")
	}
	if !result.Allowed {
		s.metrics.IncrementOutcome("rate_limited")
		return dErrors.New(dErrors.CodeRateLimited, "vote limit reached, try again later")
	}

	result, err = s.limiter.Admit(ctx, models.PurposeVoteIP, ipHash, matchID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "admission check failed")
	}
	if !result.Allowed {
		s.metrics.IncrementOutcome("rate_limited")
		return dErrors.New(dErrors.CodeRateLimited, "vote limit reached, try again later")
	}
	return nil
}

// countryFor settles the vote's country code: the declared one wins, and
// when absent the resolver may place the client IP.
func (s *Service) countryFor(ctx context.Context, sub *Submission, clientIP string) string {
	if sub.CountryCode != "" || s.resolver == nil || clientIP == "" {
		return sub.CountryCode
	}

	location, err := s.resolver.Resolve(ctx, clientIP)
	if err != nil {
		s.logger.WarnContext(ctx, "country resolution failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return ""
	}
	if location == nil {
		return ""
	}
	return location.CountryCode
}

// fanout pushes the vote and its refreshed counters to subscribers. Runs
// in the background on a detached context; a broadcast must never delay
// or fail the submission it announces.
func (s *Service) fanout(ctx context.Context, record Vote, result aggregate.Result) {
	if s.broadcaster == nil {
		return
	}

	go func() {
		_, span := s.tracer.Start(ctx, "vote.fanout")
		defer span.End()

		s.broadcaster.BroadcastVote(record.MatchID, realtime.VotePayload{
			Side:      string(record.Side),
			Cell:      record.Cell,
			Timestamp: record.CreatedAt,
		})

		s.broadcaster.BroadcastAggregate(record.MatchID, realtime.AggregatePayload{
			Kind:        aggregate.KindCell,
			LocationKey: record.Cell,
			Resolution:  record.Resolution,
			SideA:       result.Cell.SideA,
			SideB:       result.Cell.SideB,
			Total:       result.Cell.Total,
		})

		if result.Country != nil {
			s.broadcaster.BroadcastAggregate(record.MatchID, realtime.AggregatePayload{
				Kind:        aggregate.KindCountry,
				LocationKey: record.CountryCode,
				SideA:       result.Country.SideA,
				SideB:       result.Country.SideB,
				Total:       result.Country.Total,
			})
		}
	}()
}
