package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"geovote/pkg/platform/sentinel"
)

const (
	aggregatesKeyPrefix = "agg:list:"
	statsKeyPrefix      = "agg:stats:"
)

// RedisCache stores JSON snapshots of aggregate reads with short TTLs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache constructs a Redis-backed aggregate cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) GetAggregates(ctx context.Context, matchID string) ([]Aggregate, error) {
	payload, err := c.client.Get(ctx, aggregatesKeyPrefix+matchID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrCacheMiss
		}
		return nil, fmt.Errorf("get cached aggregates: %w", err)
	}

	var aggregates []Aggregate
	if err := json.Unmarshal(payload, &aggregates); err != nil {
		// A corrupt entry behaves like a miss so the caller recomputes.
		return nil, sentinel.ErrCacheMiss
	}
	return aggregates, nil
}

func (c *RedisCache) SetAggregates(ctx context.Context, matchID string, aggregates []Aggregate) error {
	payload, err := json.Marshal(aggregates)
	if err != nil {
		return fmt.Errorf("marshal aggregates: %w", err)
	}
	if err := c.client.Set(ctx, aggregatesKeyPrefix+matchID, payload, AggregatesTTL).Err(); err != nil {
		return fmt.Errorf("cache aggregates: %w", err)
	}
	return nil
}

func (c *RedisCache) GetStats(ctx context.Context, matchID string) (*Stats, error) {
	payload, err := c.client.Get(ctx, statsKeyPrefix+matchID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrCacheMiss
		}
		return nil, fmt.Errorf("get cached stats: %w", err)
	}

	var stats Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, sentinel.ErrCacheMiss
	}
	return &stats, nil
}

func (c *RedisCache) SetStats(ctx context.Context, matchID string, stats Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKeyPrefix+matchID, payload, StatsTTL).Err(); err != nil {
		return fmt.Errorf("cache stats: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, matchID string) error {
	if err := c.client.Del(ctx, aggregatesKeyPrefix+matchID, statsKeyPrefix+matchID).Err(); err != nil {
		return fmt.Errorf("invalidate aggregate cache: %w", err)
	}
	return nil
}
