package pattern

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks

// TrackTTL is the retention for all pattern keys. Every write refreshes it,
// so active patterns persist while idle ones expire without a sweep job.
const TrackTTL = 48 * time.Hour

// Store holds the cross-request pattern state the fraud detectors read.
// All writes refresh the key's TTL; all identifiers are pre-hashed by the
// caller and never raw.
type Store interface {
	// TrackIPForFingerprint adds an IP hash to the set seen for a
	// fingerprint within a match.
	TrackIPForFingerprint(ctx context.Context, matchID, fingerprintHash, ipHash string) error

	// TrackFingerprintForIP adds a fingerprint hash to the set seen for an
	// IP within a match.
	TrackFingerprintForIP(ctx context.Context, matchID, ipHash, fingerprintHash string) error

	// TrackVoteTime appends a vote timestamp to the fingerprint's history.
	TrackVoteTime(ctx context.Context, fingerprintHash string, at time.Time) error

	// TrackCoordinates increments the count of votes reporting this exact
	// coordinate key within a match.
	TrackCoordinates(ctx context.Context, matchID, exactCoordKey string) error

	// UniqueIPCount returns how many distinct IP hashes were seen for a
	// fingerprint within a match.
	UniqueIPCount(ctx context.Context, matchID, fingerprintHash string) (int, error)

	// UniqueFingerprintCount returns how many distinct fingerprint hashes
	// were seen for an IP within a match.
	UniqueFingerprintCount(ctx context.Context, matchID, ipHash string) (int, error)

	// VoteTimestamps returns up to the last `limit` recorded vote times for
	// a fingerprint, oldest first.
	VoteTimestamps(ctx context.Context, fingerprintHash string, limit int) ([]time.Time, error)

	// CoordinateCount returns how many votes in a match reported this exact
	// coordinate key.
	CoordinateCount(ctx context.Context, matchID, exactCoordKey string) (int, error)
}
