package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"geovote/pkg/requestcontext"
)

// PostgresStore keeps the counters in PostgreSQL. The increment statement
// is a single upsert, so the row-level lock taken by the database is the
// only synchronization: two concurrent votes for the same key serialize
// there and both land.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed aggregate store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const incrementSQL = `
	INSERT INTO vote_aggregates (match_id, kind, location_key, resolution, side_a, side_b, total, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, 1, $7)
	ON CONFLICT (match_id, kind, location_key, resolution) DO UPDATE SET
		side_a = vote_aggregates.side_a + EXCLUDED.side_a,
		side_b = vote_aggregates.side_b + EXCLUDED.side_b,
		total = vote_aggregates.total + 1,
		updated_at = EXCLUDED.updated_at
	RETURNING side_a, side_b, total`

func (s *PostgresStore) IncrementCell(ctx context.Context, matchID, cell string, resolution int, side Side) (Counts, error) {
	counts, err := s.increment(ctx, matchID, KindCell, cell, resolution, side)
	if err != nil {
		return Counts{}, fmt.Errorf("increment cell aggregate: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) IncrementCountry(ctx context.Context, matchID, countryCode string, side Side) (Counts, error) {
	counts, err := s.increment(ctx, matchID, KindCountry, countryCode, 0, side)
	if err != nil {
		return Counts{}, fmt.Errorf("increment country aggregate: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) increment(ctx context.Context, matchID string, kind Kind, key string, resolution int, side Side) (Counts, error) {
	var aInc, bInc int64
	if side == SideA {
		aInc = 1
	} else {
		bInc = 1
	}

	var counts Counts
	err := s.pool.QueryRow(ctx, incrementSQL,
		matchID, string(kind), key, resolution, aInc, bInc, requestcontext.Now(ctx),
	).Scan(&counts.SideA, &counts.SideB, &counts.Total)
	if err != nil {
		return Counts{}, err
	}
	return counts, nil
}

const listByMatchSQL = `
	SELECT match_id, kind, location_key, resolution, side_a, side_b, total, updated_at
	FROM vote_aggregates
	WHERE match_id = $1
	ORDER BY kind, total DESC, location_key`

func (s *PostgresStore) ListByMatch(ctx context.Context, matchID string) ([]Aggregate, error) {
	rows, err := s.pool.Query(ctx, listByMatchSQL, matchID)
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	defer rows.Close()

	var aggregates []Aggregate
	for rows.Next() {
		var (
			agg  Aggregate
			kind string
		)
		err := rows.Scan(
			&agg.MatchID,
			&kind,
			&agg.LocationKey,
			&agg.Resolution,
			&agg.Counts.SideA,
			&agg.Counts.SideB,
			&agg.Counts.Total,
			&agg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		agg.Kind = Kind(kind)
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	return aggregates, nil
}

const statsByMatchSQL = `
	SELECT
		COALESCE(SUM(side_a) FILTER (WHERE kind = 'cell'), 0),
		COALESCE(SUM(side_b) FILTER (WHERE kind = 'cell'), 0),
		COALESCE(SUM(total) FILTER (WHERE kind = 'cell'), 0),
		COUNT(*) FILTER (WHERE kind = 'country'),
		COUNT(*) FILTER (WHERE kind = 'cell'),
		MAX(updated_at)
	FROM vote_aggregates
	WHERE match_id = $1`

func (s *PostgresStore) StatsByMatch(ctx context.Context, matchID string) (Stats, error) {
	stats := Stats{MatchID: matchID}
	var lastVoteAt *time.Time

	err := s.pool.QueryRow(ctx, statsByMatchSQL, matchID).Scan(
		&stats.SideA,
		&stats.SideB,
		&stats.Total,
		&stats.UniqueCountries,
		&stats.UniqueCells,
		&lastVoteAt,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("match stats: %w", err)
	}

	stats.LastVoteAt = lastVoteAt
	return stats, nil
}
