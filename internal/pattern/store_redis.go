package pattern

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefixes for pattern trails.
const (
	keyPrefixFingerprintIPs = "pattern:fp_ips:"    // set of ip hashes per (match, fingerprint)
	keyPrefixIPFingerprints = "pattern:ip_fps:"    // set of fingerprint hashes per (match, ip)
	keyPrefixVoteTimes      = "pattern:votetimes:" // list of unix-milli timestamps per fingerprint
	keyPrefixCoordinates    = "pattern:coords:"    // hash of exact-coordinate counts per match
)

// RedisStore implements Store on Redis. Each write runs as a pipeline of
// the mutation plus a TTL refresh, so one round trip covers both.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) TrackIPForFingerprint(ctx context.Context, matchID, fingerprintHash, ipHash string) error {
	key := keyPrefixFingerprintIPs + matchID + ":" + fingerprintHash
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, ipHash)
	pipe.Expire(ctx, key, TrackTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track ip for fingerprint: %w", err)
	}
	return nil
}

func (s *RedisStore) TrackFingerprintForIP(ctx context.Context, matchID, ipHash, fingerprintHash string) error {
	key := keyPrefixIPFingerprints + matchID + ":" + ipHash
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, fingerprintHash)
	pipe.Expire(ctx, key, TrackTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track fingerprint for ip: %w", err)
	}
	return nil
}

func (s *RedisStore) TrackVoteTime(ctx context.Context, fingerprintHash string, at time.Time) error {
	key := keyPrefixVoteTimes + fingerprintHash
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, at.UnixMilli())
	pipe.LTrim(ctx, key, -timestampHistoryLimit, -1)
	pipe.Expire(ctx, key, TrackTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track vote time: %w", err)
	}
	return nil
}

func (s *RedisStore) TrackCoordinates(ctx context.Context, matchID, exactCoordKey string) error {
	key := keyPrefixCoordinates + matchID
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, exactCoordKey, 1)
	pipe.Expire(ctx, key, TrackTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track coordinates: %w", err)
	}
	return nil
}

func (s *RedisStore) UniqueIPCount(ctx context.Context, matchID, fingerprintHash string) (int, error) {
	key := keyPrefixFingerprintIPs + matchID + ":" + fingerprintHash
	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("count ips for fingerprint: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) UniqueFingerprintCount(ctx context.Context, matchID, ipHash string) (int, error) {
	key := keyPrefixIPFingerprints + matchID + ":" + ipHash
	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("count fingerprints for ip: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) VoteTimestamps(ctx context.Context, fingerprintHash string, limit int) ([]time.Time, error) {
	if limit <= 0 {
		return nil, nil
	}
	key := keyPrefixVoteTimes + fingerprintHash
	vals, err := s.client.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read vote times: %w", err)
	}

	times := make([]time.Time, 0, len(vals))
	for _, v := range vals {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		times = append(times, time.UnixMilli(ms))
	}
	return times, nil
}

func (s *RedisStore) CoordinateCount(ctx context.Context, matchID, exactCoordKey string) (int, error) {
	key := keyPrefixCoordinates + matchID
	v, err := s.client.HGet(ctx, key, exactCoordKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read coordinate count: %w", err)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, nil
	}
	return n, nil
}
