package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"geovote/pkg/requestcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a unique ID for log correlation. An incoming
// X-Request-ID header is honored so IDs survive proxy hops; otherwise a new
// UUID is generated. The ID is echoed back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
