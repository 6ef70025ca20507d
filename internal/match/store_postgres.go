package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"geovote/pkg/platform/sentinel"
)

// PostgresStore reads matches from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed match store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const getMatchSQL = `
	SELECT id, label_a, label_b, status, vote_limit, require_verification,
		starts_at, ends_at, created_at
	FROM matches
	WHERE id = $1`

func (s *PostgresStore) Get(ctx context.Context, matchID string) (*Match, error) {
	var (
		m      Match
		status string
	)
	err := s.pool.QueryRow(ctx, getMatchSQL, matchID).Scan(
		&m.ID,
		&m.LabelA,
		&m.LabelB,
		&status,
		&m.VoteLimit,
		&m.RequireVerification,
		&m.StartsAt,
		&m.EndsAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get match: %w", err)
	}

	m.Status = Status(status)
	return &m, nil
}
