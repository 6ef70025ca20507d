package match

import "context"

// Store reads match registry rows. Returns sentinel.ErrNotFound for
// unknown matches. The pipeline never writes matches.
type Store interface {
	Get(ctx context.Context, matchID string) (*Match, error)
}
