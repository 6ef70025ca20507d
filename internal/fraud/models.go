package fraud

import (
	"time"

	"github.com/google/uuid"

	"geovote/internal/geo"
	dErrors "geovote/pkg/domain-errors"
)

// Severity ranks how strongly a detector's finding suggests abuse.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity validates a wire-level severity string.
func ParseSeverity(raw string) (Severity, error) {
	switch severity := Severity(raw); severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return severity, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "severity must be one of: low, medium, high, critical")
	}
}

// Score returns the weight a severity contributes to the evaluation score.
func (s Severity) Score() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 5
	case SeverityCritical:
		return 10
	default:
		return 0
	}
}

// rank orders severities for "highest severity" reporting.
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Exceeds reports whether s outranks other.
func (s Severity) Exceeds(other Severity) bool {
	return s.rank() > other.rank()
}

// EventType names the detector that produced an event.
type EventType string

const (
	EventMultipleIPs          EventType = "multiple_ips_per_fingerprint"
	EventMultipleFingerprints EventType = "multiple_fingerprints_per_ip"
	EventRapidVoting          EventType = "rapid_voting"
	EventSuspiciousUserAgent  EventType = "suspicious_user_agent"
	EventGeoInconsistency     EventType = "geo_inconsistency"
	EventCoordinateSpoofing   EventType = "coordinate_spoofing"
	EventVPNProxy             EventType = "vpn_proxy"
)

// Event records one detector finding. Events are persisted for audit even
// when the vote that triggered them is allowed through. FlaggedForReview
// marks events from votes that were allowed on a borderline score; Reviewed
// tracks whether a human has since looked at them.
type Event struct {
	ID               uuid.UUID      `json:"id"`
	MatchID          string         `json:"match_id"`
	VoteID           *uuid.UUID     `json:"vote_id,omitempty"`
	FingerprintHash  string         `json:"fingerprint_hash"`
	IPHash           string         `json:"ip_hash"`
	Type             EventType      `json:"type"`
	Severity         Severity       `json:"severity"`
	Reason           string         `json:"reason"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	DetectedAt       time.Time      `json:"detected_at"`
	FlaggedForReview bool           `json:"flagged_for_review"`
	Reviewed         bool           `json:"reviewed"`
	ReviewedBy       string         `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
}

// Signal is a detector's result: either one event or nothing. Detectors
// that error return neither; the engine treats that as no signal and logs.
type Signal struct {
	event *Event
}

// NoSignal is the clean result.
func NoSignal() Signal {
	return Signal{}
}

// Flag wraps a finding into a signal.
func Flag(event Event) Signal {
	return Signal{event: &event}
}

// Event returns the finding, if any.
func (s Signal) Event() (Event, bool) {
	if s.event == nil {
		return Event{}, false
	}
	return *s.event, true
}

// Input carries everything the detectors may inspect for one vote. The raw
// client IP is used transiently for location and reputation lookups and is
// never persisted; only its hash is. VoteID is the identifier the pipeline
// pre-assigned to the vote; events reference it only when the vote survives
// to persistence.
type Input struct {
	MatchID         string
	VoteID          uuid.UUID
	FingerprintHash string
	IPHash          string
	ClientIP        string
	UserAgent       string
	DeviceLocation  *geo.Point
	At              time.Time
}

// Evaluation is the engine's verdict for one vote.
type Evaluation struct {
	Suspicious      bool
	Events          []Event
	HighestSeverity Severity
	Score           int
	ShouldBlock     bool
	ShouldReview    bool
}

// Decision thresholds. A score above blockThreshold rejects the vote; a
// score above reviewThreshold lets it through but queues the events for a
// human reviewer.
const (
	blockThreshold  = 10
	reviewThreshold = 5
)

// Resolve derives the verdict fields from the collected events. Pure
// domain logic, no I/O.
func Resolve(events []Event) Evaluation {
	eval := Evaluation{Events: events}
	for _, event := range events {
		eval.Score += event.Severity.Score()
		if event.Severity.Exceeds(eval.HighestSeverity) {
			eval.HighestSeverity = event.Severity
		}
	}

	eval.Suspicious = len(events) > 0
	eval.ShouldBlock = eval.Score > blockThreshold
	eval.ShouldReview = !eval.ShouldBlock && eval.Score > reviewThreshold
	return eval
}
