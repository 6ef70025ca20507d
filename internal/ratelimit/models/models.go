package models

import "time"

// Purpose names an independent limiter instance. Each purpose carries its
// own rule and its own counter namespace.
type Purpose string

const (
	// PurposeVoteFingerprint: votes per hashed device fingerprint (short window).
	PurposeVoteFingerprint Purpose = "vote_fp"
	// PurposeVoteIP: votes per hashed source IP (long window).
	PurposeVoteIP Purpose = "vote_ip"
	// PurposeAPI: general request limiter keyed by a generic client identifier.
	PurposeAPI Purpose = "api"
)

// IsValid checks if the purpose is one of the supported enum values.
func (p Purpose) IsValid() bool {
	switch p {
	case PurposeVoteFingerprint, PurposeVoteIP, PurposeAPI:
		return true
	}
	return false
}

// Rule configures one limiter instance: at most Limit admissions per
// sliding Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Result represents the outcome of an admission check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
	FailedOpen bool      `json:"-"`                     // counting store was unreachable; admission granted by policy
}

// DefaultRules returns the limiter configuration used in production. The
// vote limiters key on hashed identifiers and are scoped per match; the API
// limiter keys on the hashed client address globally.
func DefaultRules() map[Purpose]Rule {
	return map[Purpose]Rule{
		PurposeVoteFingerprint: {Limit: 5, Window: 60 * time.Second},
		PurposeVoteIP:          {Limit: 100, Window: time.Hour},
		PurposeAPI:             {Limit: 300, Window: 60 * time.Second},
	}
}
