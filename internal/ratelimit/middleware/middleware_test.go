package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"geovote/internal/ratelimit/models"
)

type stubLimiter struct {
	result *models.Result
	err    error
	calls  int
}

func (l *stubLimiter) Admit(ctx context.Context, purpose models.Purpose, identifier, scope string) (*models.Result, error) {
	l.calls++
	return l.result, l.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticIdentifier(ctx context.Context) string { return "client-hash" }

func TestLimitAllows(t *testing.T) {
	limiter := &stubLimiter{result: &models.Result{
		Allowed:   true,
		Limit:     300,
		Remaining: 299,
		ResetAt:   time.Now().Add(time.Minute),
	}}
	m := New(limiter, staticIdentifier, testLogger())

	called := false
	h := m.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, called)
	require.Equal(t, "300", w.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "299", w.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestLimitDenies(t *testing.T) {
	limiter := &stubLimiter{result: &models.Result{
		Allowed:    false,
		Limit:      300,
		Remaining:  0,
		ResetAt:    time.Now().Add(30 * time.Second),
		RetryAfter: 30,
	}}
	m := New(limiter, staticIdentifier, testLogger())

	h := m.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when denied")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "30", w.Header().Get("Retry-After"))
	require.Contains(t, w.Body.String(), "rate_limited")
}

func TestLimitFailsOpenOnError(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("wiring fault")}
	m := New(limiter, staticIdentifier, testLogger())

	called := false
	h := m.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called, "limiter errors must not block requests")
}

func TestLimitDisabled(t *testing.T) {
	limiter := &stubLimiter{}
	m := New(limiter, staticIdentifier, testLogger(), WithDisabled(true))

	called := false
	h := m.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
	require.Zero(t, limiter.calls, "disabled middleware must not consult the limiter")
}
