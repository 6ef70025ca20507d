package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"geovote/internal/ratelimit/models"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestAllow() {
	s.Run("first admission allowed", func() {
		result, err := s.store.Allow(s.ctx, "rl:test:allow:first", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("admissions up to limit allowed", func() {
		var result *models.Result
		var err error
		for range testLimit {
			result, err = s.store.Allow(s.ctx, "rl:test:allow:limit", testLimit, testWindow)
		}
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(0, result.Remaining)
	})

	s.Run("admission over limit denied", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "rl:test:allow:over", testLimit, testWindow)
			require.NoError(s.T(), err)
		}
		result, err := s.store.Allow(s.ctx, "rl:test:allow:over", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Positive(result.RetryAfter)
	})

	s.Run("fourth vote in a minute against limit 3 is denied", func() {
		key := "rl:vote_fp:fp-hash:match-1"
		for range 3 {
			result, err := s.store.Allow(s.ctx, key, 3, time.Minute)
			s.Require().NoError(err)
			s.Require().True(result.Allowed)
		}
		result, err := s.store.Allow(s.ctx, key, 3, time.Minute)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
	})

	s.Run("expired admissions slide out of the window", func() {
		key := "rl:test:allow:slide"
		for range testLimit {
			_, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
			s.Require().NoError(err)
		}

		// Age the oldest admissions past the window boundary.
		s.store.mu.Lock()
		if sw, exists := s.store.buckets[key]; exists {
			for i := range 4 {
				sw.timestamps[i] = sw.timestamps[i].Add(-testWindow - time.Second)
			}
		}
		s.store.mu.Unlock()

		result, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}

func (s *MemoryStoreSuite) TestAllowN() {
	s.Run("cost of 1 behaves like Allow", func() {
		result, err := s.store.AllowN(s.ctx, "rl:test:allown:one", 1, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("cost of 5 consumes 5 slots", func() {
		result, err := s.store.AllowN(s.ctx, "rl:test:allown:five", 5, testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(5, result.Remaining)
	})

	s.Run("cost greater than remaining denied", func() {
		firstResult, err := s.store.AllowN(s.ctx, "rl:test:allown:deny", 7, testLimit, testWindow)
		s.Require().NoError(err)
		s.Require().True(firstResult.Allowed)

		result, err := s.store.AllowN(s.ctx, "rl:test:allown:deny", 4, testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
	})
}

func (s *MemoryStoreSuite) TestReset() {
	_, err := s.store.AllowN(s.ctx, "rl:test:reset", 5, testLimit, testWindow)
	s.Require().NoError(err)

	err = s.store.Reset(s.ctx, "rl:test:reset")
	s.Require().NoError(err)

	result, err := s.store.AllowN(s.ctx, "rl:test:reset", testLimit, testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(0, result.Remaining)
}

func (s *MemoryStoreSuite) TestCurrentCount() {
	count, err := s.store.CurrentCount(s.ctx, "rl:test:count")
	s.Require().NoError(err)
	s.Equal(0, count)

	for range 3 {
		_, err := s.store.Allow(s.ctx, "rl:test:count", testLimit, testWindow)
		s.Require().NoError(err)
	}

	count, err = s.store.CurrentCount(s.ctx, "rl:test:count")
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *MemoryStoreSuite) TestConcurrent() {
	limit := 100
	key := "rl:test:concurrent"
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for range 200 {
		wg.Go(func() {
			result, err := s.store.Allow(s.ctx, key, limit, testWindow)
			s.Require().NoError(err)
			if result.Allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		})
	}

	wg.Wait()
	s.Equal(limit, allowedCount)
}
