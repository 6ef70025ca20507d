package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"geovote/internal/aggregate"
	"geovote/internal/geo"
	"geovote/internal/vote"
	dErrors "geovote/pkg/domain-errors"
)

// maxBodyBytes bounds the request body; vote payloads are tiny.
const maxBodyBytes = 4 << 10

// SubmitVoteRequest is the wire shape of a vote submission. The client IP
// and user agent are not part of the payload; the transport middleware
// supplies them through the context.
type SubmitVoteRequest struct {
	Side           string   `json:"side"`
	Fingerprint    string   `json:"fingerprint"`
	Cell           string   `json:"cell"`
	Resolution     int      `json:"resolution"`
	CountryCode    string   `json:"country_code,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	LocationSource string   `json:"location_source,omitempty"`
	ChallengeToken string   `json:"challenge_token,omitempty"`
}

// decodeSubmission parses and validates the request body into a pipeline
// submission for the given match.
func decodeSubmission(r *http.Request, matchID string) (vote.Submission, error) {
	var req SubmitVoteRequest

	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if err == io.EOF {
			return vote.Submission{}, dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return vote.Submission{}, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON")
	}

	side, err := aggregate.ParseSide(req.Side)
	if err != nil {
		return vote.Submission{}, err
	}

	sub := vote.Submission{
		MatchID:        matchID,
		Side:           side,
		Fingerprint:    req.Fingerprint,
		Cell:           req.Cell,
		Resolution:     req.Resolution,
		CountryCode:    req.CountryCode,
		LocationSource: vote.SourceIP,
		ChallengeToken: req.ChallengeToken,
	}

	if req.LocationSource != "" {
		source, err := vote.ParseLocationSource(req.LocationSource)
		if err != nil {
			return vote.Submission{}, err
		}
		sub.LocationSource = source
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return vote.Submission{}, dErrors.New(dErrors.CodeValidation, "latitude and longitude must be provided together")
	}
	if req.Latitude != nil {
		sub.Coordinates = &geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	}

	if err := sub.Validate(); err != nil {
		return vote.Submission{}, err
	}
	return sub, nil
}
