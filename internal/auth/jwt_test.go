package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dErrors "geovote/pkg/domain-errors"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key", "geovote", "review-api")

	token, err := svc.GenerateReviewerToken("rev-1", "reviewer", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "rev-1", claims.ReviewerID)
	require.Equal(t, "reviewer", claims.Role)
}

func TestJWTServiceRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-signing-key", "geovote", "review-api")

	token, err := svc.GenerateReviewerToken("rev-1", "reviewer", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	require.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestJWTServiceRejectsWrongKey(t *testing.T) {
	issuer := NewJWTService("key-one", "geovote", "review-api")
	verifier := NewJWTService("key-two", "geovote", "review-api")

	token, err := issuer.GenerateReviewerToken("rev-1", "reviewer", time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	require.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestJWTServiceRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-signing-key", "geovote", "review-api")

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
	require.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
