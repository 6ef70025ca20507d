package middleware

import (
	"net/http"
	"time"

	"geovote/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context so every operation within a single request shares
// the same "now". This keeps vote timestamps, window checks, and emitted
// events consistent with each other.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
