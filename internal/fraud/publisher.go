package fraud

import "context"

// EventPublisher streams fraud events to downstream consumers (SIEM,
// analytics). Publishing is best effort: the vote pipeline never waits on
// or fails because of it.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
