// Package service is the admission control facade. It owns the limiter
// rules, builds counter keys from hashed identifiers, and applies the
// fail-open policy when the counting store is unreachable.
package service

import (
	"context"
	"errors"
	"log/slog"

	"geovote/internal/ratelimit/metrics"
	"geovote/internal/ratelimit/models"
	"geovote/internal/ratelimit/ports"
	"geovote/pkg/requestcontext"
)

// Type alias for the interface from the ports package.
// This allows external packages to use the type without importing ports directly.
type CounterStore = ports.CounterStore

type Service struct {
	counters CounterStore
	rules    map[models.Purpose]models.Rule
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRules overrides the default limiter rules. Useful for tests and for
// tightening limits without a redeploy.
func WithRules(rules map[models.Purpose]models.Rule) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

func New(counters CounterStore, opts ...Option) (*Service, error) {
	if counters == nil {
		return nil, errors.New("counter store is required")
	}

	svc := &Service{
		counters: counters,
		rules:    models.DefaultRules(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Admit checks whether one more call for this identifier fits under the
// purpose's rule. scope partitions counters (votes are scoped per match);
// pass "" for global counters.
//
// Failure policy: if the counting store errors, the call is admitted and
// the fault logged. Availability wins over strict limiting here, because a
// hard failure in this layer would stop all voting.
func (s *Service) Admit(ctx context.Context, purpose models.Purpose, identifier, scope string) (*models.Result, error) {
	return s.admit(ctx, purpose, identifier, scope, 0)
}

// AdmitWithLimit is Admit with a per-call limit override inside the
// purpose's configured window. The vote pipeline uses it to apply a
// match's own per-user vote budget.
func (s *Service) AdmitWithLimit(ctx context.Context, purpose models.Purpose, identifier, scope string, limit int) (*models.Result, error) {
	return s.admit(ctx, purpose, identifier, scope, limit)
}

func (s *Service) admit(ctx context.Context, purpose models.Purpose, identifier, scope string, limitOverride int) (*models.Result, error) {
	rule, ok := s.rules[purpose]
	if !ok {
		// Default-deny: an unconfigured purpose is a wiring bug, and
		// admitting unmetered traffic would hide it.
		s.logger.ErrorContext(ctx, "no rule configured for limiter purpose",
			"purpose", purpose,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.recordCheck(purpose, "denied")
		return &models.Result{
			Allowed:    false,
			Limit:      0,
			Remaining:  0,
			ResetAt:    requestcontext.Now(ctx),
			RetryAfter: 60,
		}, nil
	}

	if limitOverride > 0 {
		rule.Limit = limitOverride
	}

	key := models.NewKey(purpose, identifier, scope)
	result, err := s.counters.Allow(ctx, key.String(), rule.Limit, rule.Window)
	if err != nil {
		s.logger.WarnContext(ctx, "counting store unreachable, admitting without count",
			"purpose", purpose,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.metrics != nil {
			s.metrics.RecordFailOpen(string(purpose))
		}
		s.recordCheck(purpose, "failed_open")
		return &models.Result{
			Allowed:    true,
			FailedOpen: true,
			Limit:      rule.Limit,
			Remaining:  0,
			ResetAt:    requestcontext.Now(ctx).Add(rule.Window),
		}, nil
	}

	if result.Allowed {
		s.recordCheck(purpose, "allowed")
	} else {
		s.recordCheck(purpose, "denied")
		s.logger.InfoContext(ctx, "admission denied",
			"purpose", purpose,
			"scope", scope,
			"limit", rule.Limit,
			"window_seconds", int(rule.Window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	return result, nil
}

// Reset clears the counter for an identifier under one purpose and scope.
func (s *Service) Reset(ctx context.Context, purpose models.Purpose, identifier, scope string) error {
	key := models.NewKey(purpose, identifier, scope)
	return s.counters.Reset(ctx, key.String())
}

func (s *Service) recordCheck(purpose models.Purpose, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordCheck(string(purpose), outcome)
	}
}
