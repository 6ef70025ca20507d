package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"geovote/internal/aggregate/metrics"
	dErrors "geovote/pkg/domain-errors"
	"geovote/pkg/platform/sentinel"
	"geovote/pkg/requestcontext"
)

// Service owns the write path (atomic increments plus cache invalidation)
// and the read path (read-through cache with stampede suppression). A nil
// cache disables caching entirely; reads then always hit the store.
type Service struct {
	store   Store
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithCache attaches the read-through cache.
func WithCache(cache Cache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches aggregate metrics.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService constructs the aggregate service. The durable store is
// required.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("aggregate store is required")
	}

	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Apply counts one admitted vote: the cell counter always, the country
// counter when a country was declared, then both cache entries for the
// match are dropped. A store failure is fatal to the submission — an
// acknowledged vote without a durable increment would corrupt totals —
// and surfaces as a retryable dependency error.
func (s *Service) Apply(ctx context.Context, inc Increment) (Result, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveIncrementLatency(time.Since(start))
	}()

	cellCounts, err := s.store.IncrementCell(ctx, inc.MatchID, inc.Cell, inc.Resolution, inc.Side)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "vote could not be counted")
	}
	s.metrics.IncrementApplied(string(KindCell))

	result := Result{Cell: cellCounts}
	if inc.CountryCode != "" {
		countryCounts, err := s.store.IncrementCountry(ctx, inc.MatchID, inc.CountryCode, inc.Side)
		if err != nil {
			return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "vote could not be counted")
		}
		result.Country = &countryCounts
		s.metrics.IncrementApplied(string(KindCountry))
	}

	s.invalidate(ctx, inc.MatchID)
	return result, nil
}

func (s *Service) invalidate(ctx context.Context, matchID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, matchID); err != nil {
		s.metrics.IncrementInvalidateFailure()
		s.logger.WarnContext(ctx, "aggregate cache invalidation failed",
			"match_id", matchID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// Aggregates returns every counter for the match, serving from cache when
// possible. Concurrent misses for the same match share one store read.
func (s *Service) Aggregates(ctx context.Context, matchID string) ([]Aggregate, error) {
	if s.cache != nil {
		aggregates, err := s.cache.GetAggregates(ctx, matchID)
		switch {
		case err == nil:
			s.metrics.CacheRead("aggregates", "hit")
			return aggregates, nil
		case errors.Is(err, sentinel.ErrCacheMiss):
			s.metrics.CacheRead("aggregates", "miss")
		default:
			s.metrics.CacheRead("aggregates", "error")
			s.logger.WarnContext(ctx, "aggregate cache read failed, serving from store",
				"match_id", matchID,
				"error", err,
			)
		}
	}

	v, err, _ := s.group.Do("aggregates:"+matchID, func() (any, error) {
		aggregates, err := s.store.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetAggregates(ctx, matchID, aggregates); err != nil {
				s.logger.WarnContext(ctx, "aggregate cache fill failed",
					"match_id", matchID,
					"error", err,
				)
			}
		}
		return aggregates, nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "aggregates are temporarily unavailable")
	}
	return v.([]Aggregate), nil
}

// Stats returns the match summary, serving from cache when possible.
func (s *Service) Stats(ctx context.Context, matchID string) (Stats, error) {
	if s.cache != nil {
		stats, err := s.cache.GetStats(ctx, matchID)
		switch {
		case err == nil:
			s.metrics.CacheRead("stats", "hit")
			return *stats, nil
		case errors.Is(err, sentinel.ErrCacheMiss):
			s.metrics.CacheRead("stats", "miss")
		default:
			s.metrics.CacheRead("stats", "error")
			s.logger.WarnContext(ctx, "stats cache read failed, serving from store",
				"match_id", matchID,
				"error", err,
			)
		}
	}

	v, err, _ := s.group.Do("stats:"+matchID, func() (any, error) {
		stats, err := s.store.StatsByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetStats(ctx, matchID, stats); err != nil {
				s.logger.WarnContext(ctx, "stats cache fill failed",
					"match_id", matchID,
					"error", err,
				)
			}
		}
		return stats, nil
	})
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "stats are temporarily unavailable")
	}
	return v.(Stats), nil
}
