package vote

import "context"

//go:generate mockgen -source=store.go -destination=mocks/store-mocks.go -package=mocks Store

// Store persists admitted votes. Rows are append-only from the pipeline's
// point of view; soft deletion belongs to the external moderation surface.
type Store interface {
	Insert(ctx context.Context, vote Vote) error
}
