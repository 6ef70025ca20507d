package aggregate

import (
	"context"
	"time"
)

// Cache TTLs are short and asymmetric: aggregate lists are cheap to
// recompute and tolerate half a minute of staleness; the stats summary
// feeds dashboards that poll constantly and must feel live.
const (
	AggregatesTTL = 30 * time.Second
	StatsTTL      = 5 * time.Second
)

// Cache is the read-through layer in front of the Store. Misses return
// sentinel.ErrCacheMiss; any other error means the cache is unhealthy and
// the caller should fall back to direct reads. The cache is never the
// source of truth.
type Cache interface {
	GetAggregates(ctx context.Context, matchID string) ([]Aggregate, error)
	SetAggregates(ctx context.Context, matchID string, aggregates []Aggregate) error
	GetStats(ctx context.Context, matchID string) (*Stats, error)
	SetStats(ctx context.Context, matchID string, stats Stats) error

	// Invalidate drops both entries for the match unconditionally. Called
	// after every successful increment.
	Invalidate(ctx context.Context, matchID string) error
}
