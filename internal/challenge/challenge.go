// Package challenge verifies bot-challenge tokens with an external
// provider before a vote is admitted. Matches opt in per row; the
// pipeline only consults the verifier when the match requires it.
package challenge

import "context"

// Verifier checks the challenge token a client solved for a submission.
// A nil return admits the vote. Rejected tokens carry CodeForbidden,
// an unreachable provider carries CodeUnavailable so the caller can
// retry the submission.
type Verifier interface {
	Verify(ctx context.Context, token, clientIP string) error
}

// AlwaysPass accepts every token. It backs development setups and
// deployments that have no challenge provider configured.
type AlwaysPass struct{}

func (AlwaysPass) Verify(context.Context, string, string) error { return nil }
