package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the full DDL for the voting pipeline. Statements are
// idempotent so EnsureSchema can run on every startup.
const Schema = `
CREATE TABLE IF NOT EXISTS matches (
	id                   TEXT PRIMARY KEY,
	label_a              TEXT NOT NULL,
	label_b              TEXT NOT NULL,
	status               TEXT NOT NULL DEFAULT 'scheduled',
	vote_limit           INT NOT NULL DEFAULT 1,
	require_verification BOOLEAN NOT NULL DEFAULT FALSE,
	starts_at            TIMESTAMPTZ,
	ends_at              TIMESTAMPTZ,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS votes (
	id               UUID PRIMARY KEY,
	match_id         TEXT NOT NULL,
	side             TEXT NOT NULL CHECK (side IN ('a', 'b')),
	fingerprint_hash TEXT NOT NULL,
	ip_hash          TEXT NOT NULL,
	cell             TEXT NOT NULL,
	resolution       INT NOT NULL,
	country_code     TEXT,
	latitude         DOUBLE PRECISION,
	longitude        DOUBLE PRECISION,
	location_source  TEXT NOT NULL DEFAULT 'ip',
	created_at       TIMESTAMPTZ NOT NULL,
	deleted          BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS votes_match_created_idx
	ON votes (match_id, created_at DESC);
CREATE INDEX IF NOT EXISTS votes_match_fingerprint_idx
	ON votes (match_id, fingerprint_hash);

CREATE TABLE IF NOT EXISTS vote_aggregates (
	match_id     TEXT NOT NULL,
	kind         TEXT NOT NULL CHECK (kind IN ('cell', 'country')),
	location_key TEXT NOT NULL,
	resolution   INT NOT NULL DEFAULT 0,
	side_a       BIGINT NOT NULL DEFAULT 0,
	side_b       BIGINT NOT NULL DEFAULT 0,
	total        BIGINT NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (match_id, kind, location_key, resolution)
);

CREATE TABLE IF NOT EXISTS fraud_events (
	id                 UUID PRIMARY KEY,
	match_id           TEXT NOT NULL,
	vote_id            UUID,
	fingerprint_hash   TEXT NOT NULL,
	ip_hash            TEXT NOT NULL,
	event_type         TEXT NOT NULL,
	severity           TEXT NOT NULL,
	reason             TEXT NOT NULL,
	metadata           JSONB,
	detected_at        TIMESTAMPTZ NOT NULL,
	flagged_for_review BOOLEAN NOT NULL DEFAULT FALSE,
	reviewed           BOOLEAN NOT NULL DEFAULT FALSE,
	reviewed_by        TEXT,
	reviewed_at        TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS fraud_events_match_detected_idx
	ON fraud_events (match_id, detected_at DESC);
CREATE INDEX IF NOT EXISTS fraud_events_unreviewed_idx
	ON fraud_events (detected_at DESC) WHERE NOT reviewed;
`

// EnsureSchema applies the DDL. Safe to call on an already-migrated
// database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
