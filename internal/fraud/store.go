package fraud

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a review-workbench query. Zero values mean "no
// constraint"; Reviewed is a tri-state (nil matches both).
type ListFilter struct {
	MatchID  string
	Severity Severity
	Reviewed *bool
	Limit    int
	Offset   int
}

// Store persists fraud events for audit and review. Swap with concrete
// storage without touching the service.
type Store interface {
	// SaveAll persists a batch of events from one evaluation.
	SaveAll(ctx context.Context, events []Event) error

	// List returns events matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Event, error)

	// MarkReviewed flips an event's reviewed flag and records who did it.
	// Returns sentinel.ErrNotFound when the event does not exist.
	MarkReviewed(ctx context.Context, eventID uuid.UUID, reviewer string) (*Event, error)
}
