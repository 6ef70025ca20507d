package fraud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"geovote/pkg/platform/sentinel"
	"geovote/pkg/requestcontext"
)

// PostgresStore persists fraud events in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed event store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const insertEventSQL = `
	INSERT INTO fraud_events (
		id, match_id, vote_id, fingerprint_hash, ip_hash, event_type, severity,
		reason, metadata, detected_at, flagged_for_review
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (s *PostgresStore) SaveAll(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, event := range events {
		batch.Queue(insertEventSQL,
			event.ID,
			event.MatchID,
			event.VoteID,
			event.FingerprintHash,
			event.IPHash,
			string(event.Type),
			string(event.Severity),
			event.Reason,
			event.Metadata,
			event.DetectedAt,
			event.FlaggedForReview,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert fraud event: %w", err)
		}
	}
	return nil
}

const selectEventColumns = `
	id, match_id, vote_id, fingerprint_hash, ip_hash, event_type, severity,
	reason, metadata, detected_at, flagged_for_review, reviewed,
	reviewed_by, reviewed_at`

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	var conditions []string
	var args []any

	if filter.MatchID != "" {
		args = append(args, filter.MatchID)
		conditions = append(conditions, fmt.Sprintf("match_id = $%d", len(args)))
	}
	if filter.Severity != "" {
		args = append(args, string(filter.Severity))
		conditions = append(conditions, fmt.Sprintf("severity = $%d", len(args)))
	}
	if filter.Reviewed != nil {
		args = append(args, *filter.Reviewed)
		conditions = append(conditions, fmt.Sprintf("reviewed = $%d", len(args)))
	}

	query := "SELECT " + selectEventColumns + " FROM fraud_events"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY detected_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > maxListPageSize {
		limit = defaultListPageSize
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fraud events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fraud events: %w", err)
	}
	return events, nil
}

const markReviewedSQL = `
	UPDATE fraud_events
	SET reviewed = TRUE, reviewed_by = $2, reviewed_at = $3
	WHERE id = $1
	RETURNING ` + selectEventColumns

func (s *PostgresStore) MarkReviewed(ctx context.Context, eventID uuid.UUID, reviewer string) (*Event, error) {
	now := requestcontext.Now(ctx)
	row := s.pool.QueryRow(ctx, markReviewedSQL, eventID, reviewer, now)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("mark fraud event reviewed: %w", err)
	}
	return &event, nil
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

func scanEvent(row pgx.Row) (Event, error) {
	var (
		event      Event
		eventType  string
		severity   string
		reviewedBy *string
		reviewedAt *time.Time
	)
	err := row.Scan(
		&event.ID,
		&event.MatchID,
		&event.VoteID,
		&event.FingerprintHash,
		&event.IPHash,
		&eventType,
		&severity,
		&event.Reason,
		&event.Metadata,
		&event.DetectedAt,
		&event.FlaggedForReview,
		&event.Reviewed,
		&reviewedBy,
		&reviewedAt,
	)
	if err != nil {
		return Event{}, err
	}

	event.Type = EventType(eventType)
	event.Severity = Severity(severity)
	if reviewedBy != nil {
		event.ReviewedBy = *reviewedBy
	}
	event.ReviewedAt = reviewedAt
	return event, nil
}
