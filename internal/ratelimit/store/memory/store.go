// Package memory implements the counter store with in-process sliding
// windows. Suitable for single-instance deployments and tests; distributed
// deployments should use the redis store so all instances share counters.
package memory

import (
	"context"
	"sync"
	"time"

	"geovote/internal/ratelimit/models"
)

// Store implements ports.CounterStore using in-memory sliding windows.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]*slidingWindow
}

// slidingWindow tracks admission timestamps for one key. Keeping the exact
// timestamps (rather than fixed buckets) makes the window truly sliding and
// immune to boundary bursts.
type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

// New creates a new in-memory counter store.
func New() *Store {
	return &Store{
		buckets: make(map[string]*slidingWindow),
	}
}

// Allow checks if an admission is allowed and records it.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN checks if an admission with custom cost is allowed.
// Similar to Allow but records 'cost' timestamps instead of 1.
func (s *Store) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sw := s.getOrCreateBucket(key, window)
	sw.cleanup(now)
	count := len(sw.timestamps)

	if count+cost <= limit {
		for range cost {
			sw.timestamps = append(sw.timestamps, now)
		}

		resetAt := sw.timestamps[0].Add(window)
		return &models.Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(sw.timestamps),
			ResetAt:   resetAt,
		}, nil
	}

	resetAt := now.Add(window)
	if len(sw.timestamps) > 0 {
		// The window frees a slot when the oldest admission expires.
		resetAt = sw.timestamps[0].Add(window)
	}
	retryAfter := int(time.Until(resetAt).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	return &models.Result{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}, nil
}

// Reset clears the counter for a key.
func (s *Store) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// CurrentCount returns the current admission count for a key.
func (s *Store) CurrentCount(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.buckets[key]
	if sw == nil {
		return 0, nil
	}

	sw.cleanup(time.Now())
	return len(sw.timestamps), nil
}

// cleanup removes expired timestamps from a sliding window.
func (sw *slidingWindow) cleanup(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// getOrCreateBucket returns an existing bucket or creates a new one.
// Must be called while holding s.mu lock.
func (s *Store) getOrCreateBucket(key string, window time.Duration) *slidingWindow {
	if sw := s.buckets[key]; sw != nil {
		return sw
	}
	sw := &slidingWindow{timestamps: []time.Time{}, window: window}
	s.buckets[key] = sw
	return sw
}
