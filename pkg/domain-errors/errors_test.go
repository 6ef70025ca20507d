package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIs(t *testing.T) {
	t.Run("matches code on direct error", func(t *testing.T) {
		err := New(CodeBadRequest, "missing match_id")
		if !Is(err, CodeBadRequest) {
			t.Fatalf("expected Is to match CodeBadRequest")
		}
		if Is(err, CodeInternal) {
			t.Fatalf("expected Is not to match CodeInternal")
		}
	})

	t.Run("matches code through wrapping", func(t *testing.T) {
		inner := Wrap(errors.New("connection refused"), CodeUnavailable, "store unreachable")
		err := fmt.Errorf("admit vote: %w", inner)
		if !Is(err, CodeUnavailable) {
			t.Fatalf("expected Is to find code through fmt.Errorf wrapping")
		}
	})

	t.Run("uncoded error matches nothing", func(t *testing.T) {
		if Is(errors.New("plain"), CodeInternal) {
			t.Fatalf("expected uncoded error not to match any code")
		}
	})
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeRateLimited, "too many votes")); got != CodeRateLimited {
		t.Fatalf("expected CodeRateLimited, got %q", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("expected uncoded errors to default to CodeInternal, got %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(cause, CodeUnavailable, "redis unreachable")
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the wrapped cause")
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeRateLimited:  http.StatusTooManyRequests,
		CodeUnavailable:  http.StatusServiceUnavailable,
		CodeInternal:     http.StatusInternalServerError,
		Code("mystery"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ToHTTPStatus(code); got != want {
			t.Fatalf("ToHTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}
