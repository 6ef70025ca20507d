package pattern

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"geovote/internal/pattern/mocks"
)

type TrackerSuite struct {
	suite.Suite
	ctx     context.Context
	store   *InMemoryStore
	tracker *Tracker
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker, err := NewTracker(s.store, WithLogger(logger))
	s.Require().NoError(err)
	s.tracker = tracker
}

func (s *TrackerSuite) TestNewTracker() {
	_, err := NewTracker(nil)
	s.Require().Error(err)
}

func (s *TrackerSuite) TestRecordVoteWritesAllTrails() {
	at := time.Now()
	s.tracker.RecordVote(s.ctx, VoteTrail{
		MatchID:         "match-1",
		FingerprintHash: "fp-1",
		IPHash:          "ip-1",
		ExactCoordKey:   "40.712800,-74.006000",
		At:              at,
	})

	ips, err := s.tracker.UniqueIPCount(s.ctx, "match-1", "fp-1")
	s.Require().NoError(err)
	s.Equal(1, ips)

	fps, err := s.tracker.UniqueFingerprintCount(s.ctx, "match-1", "ip-1")
	s.Require().NoError(err)
	s.Equal(1, fps)

	times, err := s.tracker.RecentVoteTimes(s.ctx, "fp-1", 20)
	s.Require().NoError(err)
	s.Require().Len(times, 1)
	s.WithinDuration(at, times[0], time.Millisecond)

	coords, err := s.tracker.CoordinateCount(s.ctx, "match-1", "40.712800,-74.006000")
	s.Require().NoError(err)
	s.Equal(1, coords)
}

func (s *TrackerSuite) TestRecordVoteWithoutCoordinates() {
	s.tracker.RecordVote(s.ctx, VoteTrail{
		MatchID:         "match-1",
		FingerprintHash: "fp-1",
		IPHash:          "ip-1",
		At:              time.Now(),
	})

	coords, err := s.tracker.CoordinateCount(s.ctx, "match-1", "")
	s.Require().NoError(err)
	s.Equal(0, coords)
}

func (s *TrackerSuite) TestUniqueCountsDeduplicate() {
	for range 3 {
		s.tracker.RecordVote(s.ctx, VoteTrail{
			MatchID:         "match-1",
			FingerprintHash: "fp-1",
			IPHash:          "ip-same",
			At:              time.Now(),
		})
	}
	s.tracker.RecordVote(s.ctx, VoteTrail{
		MatchID:         "match-1",
		FingerprintHash: "fp-1",
		IPHash:          "ip-other",
		At:              time.Now(),
	})

	ips, err := s.tracker.UniqueIPCount(s.ctx, "match-1", "fp-1")
	s.Require().NoError(err)
	s.Equal(2, ips, "repeated IPs must count once")
}

func (s *TrackerSuite) TestCountsAreScopedPerMatch() {
	s.tracker.RecordVote(s.ctx, VoteTrail{
		MatchID: "match-1", FingerprintHash: "fp-1", IPHash: "ip-1", At: time.Now(),
	})

	ips, err := s.tracker.UniqueIPCount(s.ctx, "match-2", "fp-1")
	s.Require().NoError(err)
	s.Equal(0, ips)
}

func (s *TrackerSuite) TestVoteTimeHistoryIsBounded() {
	base := time.Now()
	for i := range timestampHistoryLimit + 10 {
		err := s.store.TrackVoteTime(s.ctx, "fp-busy", base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(err)
	}

	times, err := s.store.VoteTimestamps(s.ctx, "fp-busy", timestampHistoryLimit*2)
	s.Require().NoError(err)
	s.Len(times, timestampHistoryLimit)
	// The retained tail is the most recent history, oldest first.
	s.True(times[0].Before(times[len(times)-1]))
	s.WithinDuration(base.Add(time.Duration(timestampHistoryLimit+9)*time.Second), times[len(times)-1], time.Millisecond)
}

func (s *TrackerSuite) TestRecentVoteTimesRespectsLimit() {
	base := time.Now()
	for i := range 30 {
		err := s.store.TrackVoteTime(s.ctx, "fp-1", base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(err)
	}

	times, err := s.tracker.RecentVoteTimes(s.ctx, "fp-1", 20)
	s.Require().NoError(err)
	s.Len(times, 20)
	s.WithinDuration(base.Add(10*time.Second), times[0], time.Millisecond)
}

func (s *TrackerSuite) TestExpiredTrailsReadAsEmpty() {
	s.tracker.RecordVote(s.ctx, VoteTrail{
		MatchID: "match-1", FingerprintHash: "fp-1", IPHash: "ip-1",
		ExactCoordKey: "1.000000,2.000000", At: time.Now(),
	})

	// Move the store's clock past the retention window.
	s.store.now = func() time.Time { return time.Now().Add(TrackTTL + time.Minute) }

	ips, err := s.tracker.UniqueIPCount(s.ctx, "match-1", "fp-1")
	s.Require().NoError(err)
	s.Equal(0, ips)

	times, err := s.tracker.RecentVoteTimes(s.ctx, "fp-1", 20)
	s.Require().NoError(err)
	s.Empty(times)

	coords, err := s.tracker.CoordinateCount(s.ctx, "match-1", "1.000000,2.000000")
	s.Require().NoError(err)
	s.Equal(0, coords)
}

func (s *TrackerSuite) TestWriteRefreshesExpiry() {
	base := time.Now()
	s.store.now = func() time.Time { return base }
	s.Require().NoError(s.store.TrackIPForFingerprint(s.ctx, "match-1", "fp-1", "ip-1"))

	// A write near the end of the window pushes expiry out again.
	s.store.now = func() time.Time { return base.Add(TrackTTL - time.Minute) }
	s.Require().NoError(s.store.TrackIPForFingerprint(s.ctx, "match-1", "fp-1", "ip-2"))

	// Past the original expiry, the refreshed key is still live.
	s.store.now = func() time.Time { return base.Add(TrackTTL + time.Hour) }
	ips, err := s.store.UniqueIPCount(s.ctx, "match-1", "fp-1")
	s.Require().NoError(err)
	s.Equal(2, ips)
}

func TestRecordVoteAbsorbsWriteFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	at := time.Now()
	store.EXPECT().
		TrackIPForFingerprint(gomock.Any(), "match-1", "fp-1", "ip-1").
		Return(errors.New("redis: connection refused"))
	store.EXPECT().
		TrackFingerprintForIP(gomock.Any(), "match-1", "ip-1", "fp-1").
		Return(nil)
	store.EXPECT().
		TrackVoteTime(gomock.Any(), "fp-1", at).
		Return(nil)
	store.EXPECT().
		TrackCoordinates(gomock.Any(), "match-1", "1.000000,2.000000").
		Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker, err := NewTracker(store, WithLogger(logger))
	require.NoError(t, err)

	// A failed trail write must not stop the remaining writes.
	tracker.RecordVote(context.Background(), VoteTrail{
		MatchID:         "match-1",
		FingerprintHash: "fp-1",
		IPHash:          "ip-1",
		ExactCoordKey:   "1.000000,2.000000",
		At:              at,
	})
}
