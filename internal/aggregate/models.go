// Package aggregate accumulates vote counters per geospatial cell and per
// country and serves the read side behind a short-TTL cache. Increments are
// atomic at the database so concurrent votes for the same key never lose
// updates, even across multiple service instances.
package aggregate

import (
	"time"

	dErrors "geovote/pkg/domain-errors"
)

// Side identifies one of the two competing options in a match.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// ParseSide validates a wire-level side value.
func ParseSide(raw string) (Side, error) {
	switch side := Side(raw); side {
	case SideA, SideB:
		return side, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "side must be \"a\" or \"b\"")
	}
}

// Kind partitions counters by how their location key is derived.
type Kind string

const (
	KindCell    Kind = "cell"
	KindCountry Kind = "country"
)

// Counts holds the per-side tallies for one counter.
type Counts struct {
	SideA int64 `json:"side_a"`
	SideB int64 `json:"side_b"`
	Total int64 `json:"total"`
}

// Aggregate is one accumulated counter. Resolution is meaningful only for
// cell aggregates; the same geographic area at two resolutions is two
// independent counters.
type Aggregate struct {
	MatchID     string    `json:"match_id"`
	Kind        Kind      `json:"kind"`
	LocationKey string    `json:"location_key"`
	Resolution  int       `json:"resolution,omitempty"`
	Counts      Counts    `json:"counts"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stats is the match-wide summary derived from the counters. Totals come
// from the cell aggregates because every vote lands in exactly one cell;
// country aggregates only exist for votes that declared a country.
type Stats struct {
	MatchID         string     `json:"match_id"`
	Total           int64      `json:"total"`
	SideA           int64      `json:"side_a"`
	SideB           int64      `json:"side_b"`
	UniqueCountries int        `json:"unique_countries"`
	UniqueCells     int        `json:"unique_cells"`
	LastVoteAt      *time.Time `json:"last_vote_at,omitempty"`
}

// Increment captures everything one admitted vote contributes to the
// counters. CountryCode may be empty; the cell is always present.
type Increment struct {
	MatchID     string
	Side        Side
	Cell        string
	Resolution  int
	CountryCode string
}

// Result reports the counter values right after an increment was applied.
// Country is nil when the vote carried no country code.
type Result struct {
	Cell    Counts
	Country *Counts
}
