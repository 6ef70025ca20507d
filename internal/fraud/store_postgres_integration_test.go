//go:build integration

package fraud_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"geovote/internal/fraud"
	"geovote/internal/platform/postgres"
	"geovote/pkg/platform/sentinel"
	"geovote/pkg/requestcontext"
	"geovote/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx      context.Context
	postgres *containers.PostgresContainer
	store    *fraud.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.ApplySchema(s.ctx, postgres.Schema))
	s.store = fraud.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "fraud_events"))
}

func (s *PostgresStoreSuite) storedEvent(matchID string, severity fraud.Severity, detectedAt time.Time) fraud.Event {
	voteID := uuid.New()
	return fraud.Event{
		ID:              uuid.New(),
		MatchID:         matchID,
		VoteID:          &voteID,
		FingerprintHash: "fp-hash",
		IPHash:          "ip-hash",
		Type:            fraud.EventRapidVoting,
		Severity:        severity,
		Reason:          "votes 4s apart",
		Metadata:        map[string]any{"interval_seconds": 4.0},
		DetectedAt:      detectedAt,
	}
}

func (s *PostgresStoreSuite) TestSaveAllAndList() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []fraud.Event{
		s.storedEvent("match-1", fraud.SeverityLow, now.Add(-2*time.Minute)),
		s.storedEvent("match-1", fraud.SeverityHigh, now.Add(-1*time.Minute)),
		s.storedEvent("match-2", fraud.SeverityMedium, now),
	}
	s.Require().NoError(s.store.SaveAll(s.ctx, events))

	got, err := s.store.List(s.ctx, fraud.ListFilter{MatchID: "match-1"})
	s.Require().NoError(err)
	s.Require().Len(got, 2)

	// Newest first.
	s.Equal(events[1].ID, got[0].ID)
	s.Equal(events[0].ID, got[1].ID)

	s.Equal(fraud.EventRapidVoting, got[0].Type)
	s.Equal(fraud.SeverityHigh, got[0].Severity)
	s.Equal("votes 4s apart", got[0].Reason)
	s.Require().NotNil(got[0].VoteID)
	s.Equal(*events[1].VoteID, *got[0].VoteID)
	s.Equal(4.0, got[0].Metadata["interval_seconds"])
	s.False(got[0].Reviewed)
}

func (s *PostgresStoreSuite) TestSaveAllNilVoteReference() {
	event := s.storedEvent("match-1", fraud.SeverityCritical, time.Now().UTC())
	event.VoteID = nil
	s.Require().NoError(s.store.SaveAll(s.ctx, []fraud.Event{event}))

	got, err := s.store.List(s.ctx, fraud.ListFilter{MatchID: "match-1"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Nil(got[0].VoteID)
}

func (s *PostgresStoreSuite) TestListFilters() {
	now := time.Now().UTC()
	low := s.storedEvent("match-1", fraud.SeverityLow, now.Add(-time.Minute))
	high := s.storedEvent("match-1", fraud.SeverityHigh, now)
	s.Require().NoError(s.store.SaveAll(s.ctx, []fraud.Event{low, high}))

	_, err := s.store.MarkReviewed(s.ctx, low.ID, "reviewer-1")
	s.Require().NoError(err)

	bySeverity, err := s.store.List(s.ctx, fraud.ListFilter{Severity: fraud.SeverityHigh})
	s.Require().NoError(err)
	s.Require().Len(bySeverity, 1)
	s.Equal(high.ID, bySeverity[0].ID)

	reviewed := true
	byReviewed, err := s.store.List(s.ctx, fraud.ListFilter{Reviewed: &reviewed})
	s.Require().NoError(err)
	s.Require().Len(byReviewed, 1)
	s.Equal(low.ID, byReviewed[0].ID)

	unreviewed := false
	byUnreviewed, err := s.store.List(s.ctx, fraud.ListFilter{Reviewed: &unreviewed})
	s.Require().NoError(err)
	s.Require().Len(byUnreviewed, 1)
	s.Equal(high.ID, byUnreviewed[0].ID)
}

func (s *PostgresStoreSuite) TestListPagination() {
	now := time.Now().UTC()
	var events []fraud.Event
	for i := range 5 {
		events = append(events, s.storedEvent("match-1", fraud.SeverityLow, now.Add(time.Duration(i)*time.Second)))
	}
	s.Require().NoError(s.store.SaveAll(s.ctx, events))

	page, err := s.store.List(s.ctx, fraud.ListFilter{MatchID: "match-1", Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(events[2].ID, page[0].ID)
	s.Equal(events[1].ID, page[1].ID)
}

func (s *PostgresStoreSuite) TestMarkReviewed() {
	event := s.storedEvent("match-1", fraud.SeverityMedium, time.Now().UTC())
	s.Require().NoError(s.store.SaveAll(s.ctx, []fraud.Event{event}))

	reviewTime := time.Now().UTC().Truncate(time.Millisecond)
	ctx := requestcontext.WithTime(s.ctx, reviewTime)

	got, err := s.store.MarkReviewed(ctx, event.ID, "reviewer-1")
	s.Require().NoError(err)
	s.True(got.Reviewed)
	s.Equal("reviewer-1", got.ReviewedBy)
	s.Require().NotNil(got.ReviewedAt)
	s.Equal(reviewTime.UnixMilli(), got.ReviewedAt.UnixMilli())
}

func (s *PostgresStoreSuite) TestMarkReviewedNotFound() {
	_, err := s.store.MarkReviewed(s.ctx, uuid.New(), "reviewer-1")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}
