package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "geovote/pkg/domain-errors"
)

// validatable is the request-shape contract for DecodeAndPrepare: a pointer
// type that can validate (and normalize) itself after decoding.
type validatable[T any] interface {
	*T
	Validate() error
}

// DecodeAndPrepare decodes the JSON request body into T, runs its
// Validate, and writes the error response itself on failure. Handlers call
// it as `req, ok := DecodeAndPrepare[MyRequest](...)` and return early when
// ok is false.
func DecodeAndPrepare[T any, PT validatable[T]](
	w http.ResponseWriter,
	r *http.Request,
	logger *slog.Logger,
	ctx context.Context,
	requestID string,
) (PT, bool) {
	var req PT = new(T)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request body decode failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}

	return req, true
}
