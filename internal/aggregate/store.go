package aggregate

import "context"

// Store is the durable counter store. Each increment must be atomic with
// respect to concurrent increments on the same key: the database primitive
// carries the linearizability guarantee, not an application lock, because
// the service may run as several processes.
type Store interface {
	// IncrementCell adds one vote to the (match, cell, resolution) counter
	// and returns the counts after the increment.
	IncrementCell(ctx context.Context, matchID, cell string, resolution int, side Side) (Counts, error)

	// IncrementCountry adds one vote to the (match, country) counter and
	// returns the counts after the increment.
	IncrementCountry(ctx context.Context, matchID, countryCode string, side Side) (Counts, error)

	// ListByMatch returns every counter for a match, cells before
	// countries, most active first within each kind.
	ListByMatch(ctx context.Context, matchID string) ([]Aggregate, error)

	// StatsByMatch derives the match-wide summary.
	StatsByMatch(ctx context.Context, matchID string) (Stats, error)
}
