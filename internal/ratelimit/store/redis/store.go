// Package redis implements the counter store on Redis so all service
// instances share admission counters.
//
// The sliding window is approximated with two fixed buckets: the count in
// the current bucket plus the previous bucket's count weighted by how much
// of it still overlaps the window. Concurrent callers may each observe the
// pre-increment count and admit simultaneously; the overshoot is bounded by
// the number of in-flight calls on one key and is accepted for this layer.
package redis

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"geovote/internal/ratelimit/models"
)

// Keys live twice the window so the previous bucket stays readable for the
// whole weighting period.
const bucketRetentionFactor = 2

// Store implements ports.CounterStore on Redis.
type Store struct {
	client *redis.Client
}

// New creates a Redis-backed counter store.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Allow checks if a single admission is allowed and records it.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN checks if 'cost' admissions fit under the limit and records them.
func (s *Store) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.Result, error) {
	windowMs := window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1000
	}

	now := time.Now()
	bucket := now.UnixMilli() / windowMs
	curKey := bucketKey(key, bucket)
	prevKey := bucketKey(key, bucket-1)

	counted, err := s.weightedCount(ctx, curKey, prevKey, now.UnixMilli(), windowMs)
	if err != nil {
		return nil, err
	}

	resetAt := time.UnixMilli((bucket + 1) * windowMs)

	if counted+cost > limit {
		retryAfter := int(math.Ceil(time.Until(resetAt).Seconds()))
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

	pipe := s.client.TxPipeline()
	pipe.IncrBy(ctx, curKey, int64(cost))
	pipe.Expire(ctx, curKey, window*bucketRetentionFactor)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("record admission: %w", err)
	}

	remaining := limit - counted - cost
	if remaining < 0 {
		remaining = 0
	}

	return &models.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key across both live buckets.
func (s *Store) Reset(ctx context.Context, key string) error {
	// Window length is unknown here, so sweep the key's bucket family.
	iter := s.client.Scan(ctx, 0, key+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan counter buckets: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete counter buckets: %w", err)
	}
	return nil
}

// CurrentCount returns the weighted admission count for a key. The window
// cannot be recovered from the key alone, so this sums all live buckets;
// with the retention factor of 2 that is at most the current and previous
// bucket, an acceptable upper bound for observability purposes.
func (s *Store) CurrentCount(ctx context.Context, key string) (int, error) {
	iter := s.client.Scan(ctx, 0, key+":*", 100).Iterator()
	total := 0
	for iter.Next(ctx) {
		v, err := s.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("read counter bucket: %w", err)
		}
		n, _ := strconv.Atoi(v)
		total += n
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan counter buckets: %w", err)
	}
	return total, nil
}

// weightedCount computes current + previous*(overlap fraction).
func (s *Store) weightedCount(ctx context.Context, curKey, prevKey string, nowMs, windowMs int64) (int, error) {
	vals, err := s.client.MGet(ctx, curKey, prevKey).Result()
	if err != nil {
		return 0, fmt.Errorf("read counter buckets: %w", err)
	}

	cur := parseCount(vals[0])
	prev := parseCount(vals[1])

	elapsed := float64(nowMs%windowMs) / float64(windowMs)
	weighted := float64(cur) + float64(prev)*(1-elapsed)

	return int(math.Ceil(weighted)), nil
}

func parseCount(v any) int {
	str, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return 0
	}
	return n
}

func bucketKey(key string, bucket int64) string {
	return fmt.Sprintf("%s:%d", key, bucket)
}
