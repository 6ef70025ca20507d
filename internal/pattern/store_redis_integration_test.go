//go:build integration

package pattern_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"geovote/internal/pattern"
	"geovote/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	ctx   context.Context
	redis *containers.RedisContainer
	store *pattern.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.store = pattern.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestUniqueIPCount() {
	for _, ip := range []string{"ip-1", "ip-2", "ip-2", "ip-3"} {
		s.Require().NoError(s.store.TrackIPForFingerprint(s.ctx, "match-1", "fp-1", ip))
	}

	n, err := s.store.UniqueIPCount(s.ctx, "match-1", "fp-1")
	s.Require().NoError(err)
	s.Equal(3, n)

	// Another match shares nothing.
	n, err = s.store.UniqueIPCount(s.ctx, "match-2", "fp-1")
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *RedisStoreSuite) TestUniqueFingerprintCount() {
	for _, fp := range []string{"fp-1", "fp-2", "fp-1"} {
		s.Require().NoError(s.store.TrackFingerprintForIP(s.ctx, "match-1", "ip-1", fp))
	}

	n, err := s.store.UniqueFingerprintCount(s.ctx, "match-1", "ip-1")
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *RedisStoreSuite) TestVoteTimestampsOrderAndLimit() {
	base := time.Now().Truncate(time.Millisecond)
	for i := range 5 {
		s.Require().NoError(s.store.TrackVoteTime(s.ctx, "fp-1", base.Add(time.Duration(i)*time.Second)))
	}

	times, err := s.store.VoteTimestamps(s.ctx, "fp-1", 3)
	s.Require().NoError(err)
	s.Require().Len(times, 3)
	s.Equal(base.Add(2*time.Second).UnixMilli(), times[0].UnixMilli())
	s.Equal(base.Add(4*time.Second).UnixMilli(), times[2].UnixMilli())
}

func (s *RedisStoreSuite) TestCoordinateCount() {
	for range 4 {
		s.Require().NoError(s.store.TrackCoordinates(s.ctx, "match-1", "40.712800,-74.006000"))
	}
	s.Require().NoError(s.store.TrackCoordinates(s.ctx, "match-1", "34.052200,-118.243700"))

	n, err := s.store.CoordinateCount(s.ctx, "match-1", "40.712800,-74.006000")
	s.Require().NoError(err)
	s.Equal(4, n)

	n, err = s.store.CoordinateCount(s.ctx, "match-1", "0.000000,0.000000")
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *RedisStoreSuite) TestWritesSetTTL() {
	s.Require().NoError(s.store.TrackIPForFingerprint(s.ctx, "match-1", "fp-1", "ip-1"))
	s.Require().NoError(s.store.TrackVoteTime(s.ctx, "fp-1", time.Now()))
	s.Require().NoError(s.store.TrackCoordinates(s.ctx, "match-1", "1.000000,2.000000"))

	for _, key := range []string{
		"pattern:fp_ips:match-1:fp-1",
		"pattern:votetimes:fp-1",
		"pattern:coords:match-1",
	} {
		ttl, err := s.redis.Client.TTL(s.ctx, key).Result()
		s.Require().NoError(err)
		s.Positive(ttl, "key %s must expire", key)
		s.LessOrEqual(ttl, pattern.TrackTTL)
	}
}

func (s *RedisStoreSuite) TestVoteTimeHistoryTrimmed() {
	for range 130 {
		s.Require().NoError(s.store.TrackVoteTime(s.ctx, "fp-busy", time.Now()))
	}

	length, err := s.redis.Client.LLen(s.ctx, "pattern:votetimes:fp-busy").Result()
	s.Require().NoError(err)
	s.LessOrEqual(length, int64(100))
}
