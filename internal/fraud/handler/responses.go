package handler

import (
	"time"

	"geovote/internal/fraud"
)

// EventResponse is the review-facing shape of one fraud event.
type EventResponse struct {
	ID               string         `json:"id"`
	MatchID          string         `json:"match_id"`
	VoteID           string         `json:"vote_id,omitempty"`
	FingerprintHash  string         `json:"fingerprint_hash"`
	IPHash           string         `json:"ip_hash"`
	Type             string         `json:"type"`
	Severity         string         `json:"severity"`
	Reason           string         `json:"reason"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	DetectedAt       time.Time      `json:"detected_at"`
	FlaggedForReview bool           `json:"flagged_for_review"`
	Reviewed         bool           `json:"reviewed"`
	ReviewedBy       string         `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
}

// ListEventsResponse wraps the event collection.
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

// FromEvent converts a domain event to its response shape.
func FromEvent(event fraud.Event) EventResponse {
	var voteID string
	if event.VoteID != nil {
		voteID = event.VoteID.String()
	}
	return EventResponse{
		ID:               event.ID.String(),
		MatchID:          event.MatchID,
		VoteID:           voteID,
		FingerprintHash:  event.FingerprintHash,
		IPHash:           event.IPHash,
		Type:             string(event.Type),
		Severity:         string(event.Severity),
		Reason:           event.Reason,
		Metadata:         event.Metadata,
		DetectedAt:       event.DetectedAt,
		FlaggedForReview: event.FlaggedForReview,
		Reviewed:         event.Reviewed,
		ReviewedBy:       event.ReviewedBy,
		ReviewedAt:       event.ReviewedAt,
	}
}

// FromEvents converts a result page.
func FromEvents(events []fraud.Event) ListEventsResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, FromEvent(event))
	}
	return ListEventsResponse{Events: out, Count: len(out)}
}
