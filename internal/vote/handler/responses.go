package handler

import (
	"time"

	"geovote/internal/aggregate"
	"geovote/internal/vote"
)

// SubmitVoteResponse acknowledges an accepted vote.
type SubmitVoteResponse struct {
	VoteID     string           `json:"vote_id"`
	MatchID    string           `json:"match_id"`
	Side       string           `json:"side"`
	Cell       string           `json:"cell"`
	CellCounts aggregate.Counts `json:"cell_counts"`
	CreatedAt  time.Time        `json:"created_at"`
}

// FromReceipt converts a pipeline receipt to its response shape.
func FromReceipt(receipt vote.Receipt) SubmitVoteResponse {
	return SubmitVoteResponse{
		VoteID:     receipt.VoteID.String(),
		MatchID:    receipt.MatchID,
		Side:       string(receipt.Side),
		Cell:       receipt.Cell,
		CellCounts: receipt.CellCounts,
		CreatedAt:  receipt.CreatedAt,
	}
}

// ListAggregatesResponse wraps the counters for one match.
type ListAggregatesResponse struct {
	MatchID    string                `json:"match_id"`
	Aggregates []aggregate.Aggregate `json:"aggregates"`
	Count      int                   `json:"count"`
}
