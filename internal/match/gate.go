package match

import (
	"context"
	"errors"
	"log/slog"

	dErrors "geovote/pkg/domain-errors"
	"geovote/pkg/platform/sentinel"
	"geovote/pkg/requestcontext"
)

// Gate is the explicit precondition check in front of the vote pipeline:
// the match must exist and be open before any vote work starts.
type Gate struct {
	store  Store
	logger *slog.Logger
}

// NewGate constructs the gate. The store is required.
func NewGate(store Store, logger *slog.Logger) (*Gate, error) {
	if store == nil {
		return nil, errors.New("match store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{store: store, logger: logger}, nil
}

// Admit returns the match when it currently accepts votes. Unknown matches
// are a not-found error; known-but-closed matches are a conflict so the
// caller can tell "never existed" from "no longer voting".
func (g *Gate) Admit(ctx context.Context, matchID string) (*Match, error) {
	m, err := g.store.Get(ctx, matchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "match not found")
		}
		g.logger.ErrorContext(ctx, "match lookup failed",
			"match_id", matchID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "match lookup failed")
	}

	if !m.OpenForVoting(requestcontext.Now(ctx)) {
		return nil, dErrors.New(dErrors.CodeConflict, "match is not open for voting")
	}
	return m, nil
}
