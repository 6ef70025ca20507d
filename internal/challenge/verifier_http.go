package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dErrors "geovote/pkg/domain-errors"
)

const defaultTimeout = 3 * time.Second

// HTTPVerifier posts solved tokens to a provider's verification
// endpoint. The wire shape follows the common siteverify contract:
// the provider answers 200 with a success flag regardless of whether
// the token passed, so any other status is a provider fault.
type HTTPVerifier struct {
	verifyURL string
	secret    string
	client    *http.Client
	logger    *slog.Logger
}

// HTTPVerifierOption customizes an HTTPVerifier.
type HTTPVerifierOption func(*HTTPVerifier)

// WithTimeout bounds a single verification round trip.
func WithTimeout(d time.Duration) HTTPVerifierOption {
	return func(v *HTTPVerifier) {
		if d > 0 {
			v.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPVerifierOption {
	return func(v *HTTPVerifier) {
		if c != nil {
			v.client = c
		}
	}
}

// WithLogger sets the logger used for rejected tokens.
func WithLogger(l *slog.Logger) HTTPVerifierOption {
	return func(v *HTTPVerifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewHTTPVerifier builds a verifier for the given endpoint.
func NewHTTPVerifier(verifyURL, secret string, opts ...HTTPVerifierOption) (*HTTPVerifier, error) {
	if verifyURL == "" {
		return nil, fmt.Errorf("challenge: verify URL is required")
	}
	v := &HTTPVerifier{
		verifyURL: verifyURL,
		secret:    secret,
		client:    &http.Client{Timeout: defaultTimeout},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

type verifyRequest struct {
	Secret   string `json:"secret"`
	Token    string `json:"token"`
	RemoteIP string `json:"remote_ip,omitempty"`
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error_codes,omitempty"`
}

// Verify submits the token and client IP to the provider.
func (v *HTTPVerifier) Verify(ctx context.Context, token, clientIP string) error {
	payload, err := json.Marshal(verifyRequest{
		Secret:   v.secret,
		Token:    token,
		RemoteIP: clientIP,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "challenge request could not be encoded")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, bytes.NewReader(payload))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "challenge request could not be built")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "challenge verifier unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "challenge verifier unreachable")
	}
	if resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("challenge verifier returned HTTP %d", resp.StatusCode))
	}

	var result verifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "challenge verifier returned an invalid response")
	}
	if !result.Success {
		v.logger.InfoContext(ctx, "challenge token rejected",
			slog.Any("error_codes", result.ErrorCodes))
		return dErrors.New(dErrors.CodeForbidden, "challenge verification failed")
	}
	return nil
}
