// Package pattern records the per-identifier behavior trails behind the
// fraud detectors: which IPs a fingerprint has used, which fingerprints an
// IP has used, when a fingerprint voted, and how often an exact coordinate
// pair repeats within a match.
//
// Coordinate tracking deliberately buckets on the exact latitude/longitude
// pair with no rounding: the spoofing detector wants byte-identical repeats,
// not nearby points.
package pattern

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"geovote/pkg/requestcontext"
)

// timestampHistoryLimit bounds how much vote-time history is retained per
// fingerprint. The rapid-voting detector only inspects the recent tail, so
// unbounded growth would cost memory without adding signal.
const timestampHistoryLimit = 100

// Tracker is the write/read facade over the pattern store. Writes are
// awaited (not dropped into the background) so a vote's own trail is
// visible to the detectors evaluating that same vote; write failures are
// logged and absorbed, since a lost trail entry only costs signal.
type Tracker struct {
	store  Store
	logger *slog.Logger
}

type TrackerOption func(*Tracker)

func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func NewTracker(store Store, opts ...TrackerOption) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("pattern store is required")
	}

	t := &Tracker{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// VoteTrail is the pattern input recorded for one vote.
type VoteTrail struct {
	MatchID         string
	FingerprintHash string
	IPHash          string
	ExactCoordKey   string // empty when the vote carried no precise coordinates
	At              time.Time
}

// RecordVote writes all four trails for a vote and returns once every write
// has settled. Individual failures are logged and do not abort the
// remaining writes.
func (t *Tracker) RecordVote(ctx context.Context, trail VoteTrail) {
	type write struct {
		name string
		fn   func() error
	}

	writes := []write{
		{"ip_for_fingerprint", func() error {
			return t.store.TrackIPForFingerprint(ctx, trail.MatchID, trail.FingerprintHash, trail.IPHash)
		}},
		{"fingerprint_for_ip", func() error {
			return t.store.TrackFingerprintForIP(ctx, trail.MatchID, trail.IPHash, trail.FingerprintHash)
		}},
		{"vote_time", func() error {
			return t.store.TrackVoteTime(ctx, trail.FingerprintHash, trail.At)
		}},
	}
	if trail.ExactCoordKey != "" {
		writes = append(writes, write{"coordinates", func() error {
			return t.store.TrackCoordinates(ctx, trail.MatchID, trail.ExactCoordKey)
		}})
	}

	for _, w := range writes {
		if err := w.fn(); err != nil {
			t.logger.WarnContext(ctx, "pattern write failed",
				"trail", w.name,
				"match_id", trail.MatchID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
}

// UniqueIPCount returns how many distinct IPs voted with this fingerprint
// in this match.
func (t *Tracker) UniqueIPCount(ctx context.Context, matchID, fingerprintHash string) (int, error) {
	return t.store.UniqueIPCount(ctx, matchID, fingerprintHash)
}

// UniqueFingerprintCount returns how many distinct fingerprints voted from
// this IP in this match.
func (t *Tracker) UniqueFingerprintCount(ctx context.Context, matchID, ipHash string) (int, error) {
	return t.store.UniqueFingerprintCount(ctx, matchID, ipHash)
}

// RecentVoteTimes returns up to `limit` of the fingerprint's most recent
// vote timestamps, oldest first.
func (t *Tracker) RecentVoteTimes(ctx context.Context, fingerprintHash string, limit int) ([]time.Time, error) {
	return t.store.VoteTimestamps(ctx, fingerprintHash, limit)
}

// CoordinateCount returns how many votes in this match reported the exact
// coordinate key.
func (t *Tracker) CoordinateCount(ctx context.Context, matchID, exactCoordKey string) (int, error) {
	return t.store.CoordinateCount(ctx, matchID, exactCoordKey)
}
