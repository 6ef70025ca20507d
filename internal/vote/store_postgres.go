package vote

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists votes in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed vote store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const insertVoteSQL = `
	INSERT INTO votes (
		id, match_id, side, fingerprint_hash, ip_hash, cell, resolution,
		country_code, latitude, longitude, location_source, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (s *PostgresStore) Insert(ctx context.Context, vote Vote) error {
	var countryCode *string
	if vote.CountryCode != "" {
		countryCode = &vote.CountryCode
	}

	var latitude, longitude *float64
	if vote.Coordinates != nil {
		latitude = &vote.Coordinates.Lat
		longitude = &vote.Coordinates.Lon
	}

	_, err := s.pool.Exec(ctx, insertVoteSQL,
		vote.ID,
		vote.MatchID,
		string(vote.Side),
		vote.FingerprintHash,
		vote.IPHash,
		vote.Cell,
		vote.Resolution,
		countryCode,
		latitude,
		longitude,
		string(vote.LocationSource),
		vote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}
