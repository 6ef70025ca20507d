package handler

import (
	"net/url"
	"strconv"

	"geovote/internal/fraud"
	dErrors "geovote/pkg/domain-errors"
)

// filterFromQuery parses and validates the list-endpoint query parameters.
func filterFromQuery(query url.Values) (fraud.ListFilter, error) {
	var filter fraud.ListFilter

	filter.MatchID = query.Get("match_id")

	if raw := query.Get("severity"); raw != "" {
		severity, err := fraud.ParseSeverity(raw)
		if err != nil {
			return fraud.ListFilter{}, err
		}
		filter.Severity = severity
	}

	if raw := query.Get("reviewed"); raw != "" {
		reviewed, err := strconv.ParseBool(raw)
		if err != nil {
			return fraud.ListFilter{}, dErrors.New(dErrors.CodeValidation, "reviewed must be true or false")
		}
		filter.Reviewed = &reviewed
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return fraud.ListFilter{}, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer")
		}
		filter.Limit = limit
	}

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return fraud.ListFilter{}, dErrors.New(dErrors.CodeValidation, "offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}
