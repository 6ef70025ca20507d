// Package ports defines shared interfaces for the ratelimit module.
// Interfaces are placed here when consumed by multiple packages to avoid
// duplication.
package ports

import (
	"context"
	"time"

	"geovote/internal/ratelimit/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// CounterStore manages sliding window admission counters.
type CounterStore interface {
	// Allow checks if a single admission fits under limit and records it if so.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)

	// AllowN checks if 'cost' admissions fit under limit and records them if so.
	AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.Result, error)

	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error

	// CurrentCount returns the current admission count in the window.
	CurrentCount(ctx context.Context, key string) (int, error)
}
