// Package vote runs the ingestion pipeline: admission control, pattern
// tracking, fraud evaluation, durable persistence, aggregate accumulation,
// and realtime fan-out for one inbound vote.
package vote

import (
	"time"

	"github.com/google/uuid"

	"geovote/internal/aggregate"
	"geovote/internal/geo"
	dErrors "geovote/pkg/domain-errors"
)

// LocationSource records how the vote's position was obtained.
type LocationSource string

const (
	SourceIP     LocationSource = "ip"
	SourceDevice LocationSource = "device"
	SourceManual LocationSource = "manual"
)

// ParseLocationSource validates a wire-level location source.
func ParseLocationSource(raw string) (LocationSource, error) {
	switch source := LocationSource(raw); source {
	case SourceIP, SourceDevice, SourceManual:
		return source, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "location_source must be one of: ip, device, manual")
	}
}

// maxResolution bounds the cell resolution levels the pipeline accepts.
const maxResolution = 15

// Submission is a validated inbound vote. Fingerprint and the client IP
// (taken from the transport, never the payload) are raw here and exist
// only in memory; everything downstream sees their hashes.
type Submission struct {
	MatchID        string
	Side           aggregate.Side
	Fingerprint    string
	Cell           string
	Resolution     int
	CountryCode    string
	Coordinates    *geo.Point
	LocationSource LocationSource
	ChallengeToken string
}

// Validate checks the submission's own shape. Match existence and openness
// are the gate's concern, not validation.
func (s Submission) Validate() error {
	if s.MatchID == "" {
		return dErrors.New(dErrors.CodeValidation, "match id is required")
	}
	if s.Fingerprint == "" {
		return dErrors.New(dErrors.CodeValidation, "fingerprint is required")
	}
	if s.Cell == "" {
		return dErrors.New(dErrors.CodeValidation, "cell is required")
	}
	if s.Resolution < 0 || s.Resolution > maxResolution {
		return dErrors.New(dErrors.CodeValidation, "resolution is out of range")
	}
	if s.CountryCode != "" && len(s.CountryCode) != 2 {
		return dErrors.New(dErrors.CodeValidation, "country_code must be ISO 3166-1 alpha-2")
	}
	if s.Coordinates != nil && !geo.ValidCoordinates(s.Coordinates.Lat, s.Coordinates.Lon) {
		return dErrors.New(dErrors.CodeValidation, "coordinates are off the globe")
	}
	return nil
}

// Vote is the persisted row. Immutable once written except for the
// soft-delete flag, which only the external moderation surface flips.
type Vote struct {
	ID              uuid.UUID
	MatchID         string
	Side            aggregate.Side
	FingerprintHash string
	IPHash          string
	Cell            string
	Resolution      int
	CountryCode     string
	Coordinates     *geo.Point
	LocationSource  LocationSource
	CreatedAt       time.Time
	Deleted         bool
}

// Receipt acknowledges an admitted vote with the counter values its
// increment produced.
type Receipt struct {
	VoteID     uuid.UUID
	MatchID    string
	Side       aggregate.Side
	Cell       string
	CellCounts aggregate.Counts
	CreatedAt  time.Time
}
