// Package match exposes the read side of the match registry that the
// voting pipeline depends on: whether a match currently accepts votes, how
// many votes one fingerprint may cast, and whether a bot-challenge token is
// required. Match lifecycle management (creation, scheduling, closing) is
// an external surface and never happens here.
package match

import "time"

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
)

// Match is the registry row as the pipeline sees it.
type Match struct {
	ID                  string     `json:"id"`
	LabelA              string     `json:"label_a"`
	LabelB              string     `json:"label_b"`
	Status              Status     `json:"status"`
	VoteLimit           int        `json:"vote_limit"`
	RequireVerification bool       `json:"require_verification"`
	StartsAt            *time.Time `json:"starts_at,omitempty"`
	EndsAt              *time.Time `json:"ends_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// OpenForVoting reports whether the match accepts votes at the given
// instant. Status is authoritative; the schedule bounds guard against a
// lagging status flip by the external scheduler.
func (m *Match) OpenForVoting(now time.Time) bool {
	if m.Status != StatusOpen {
		return false
	}
	if m.StartsAt != nil && now.Before(*m.StartsAt) {
		return false
	}
	if m.EndsAt != nil && !now.Before(*m.EndsAt) {
		return false
	}
	return true
}
