// Package middleware applies the general API limiter to HTTP routes. Vote
// admission runs inside the vote pipeline instead, where hashed fingerprint
// and match scope are available.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"geovote/internal/ratelimit/models"
	"geovote/pkg/platform/httputil"
	"geovote/pkg/requestcontext"
)

// Limiter is the admission facade consumed by this middleware.
type Limiter interface {
	Admit(ctx context.Context, purpose models.Purpose, identifier, scope string) (*models.Result, error)
}

// IdentifierFunc derives the client identifier for the API limiter from a
// request context. Production wiring hashes the client IP.
type IdentifierFunc func(ctx context.Context) string

type Middleware struct {
	limiter    Limiter
	identifier IdentifierFunc
	logger     *slog.Logger
	disabled   bool
}

type Option func(*Middleware)

// WithDisabled disables API rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(limiter Limiter, identifier IdentifierFunc, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter:    limiter,
		identifier: identifier,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("api rate limiting disabled")
	}
	return m
}

// Limit enforces the general API limiter on the wrapped routes.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		identifier := m.identifier(ctx)

		result, err := m.limiter.Admit(ctx, models.PurposeAPI, identifier, "")
		if err != nil {
			// The service already fails open on store errors; an error here
			// means a wiring fault. Do not let it take requests down.
			m.logger.ErrorContext(ctx, "admission check failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		// Add headers regardless of outcome
		addRateLimitHeaders(w, result)

		if !result.Allowed {
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":             "rate_limited",
		"error_description": "Too many requests. Please try again later.",
		"retry_after":       result.RetryAfter,
	})
}
