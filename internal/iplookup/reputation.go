package iplookup

import "context"

// Reputation describes what an external intelligence source knows about an
// IP address.
type Reputation struct {
	IsVPN     bool
	IsProxy   bool
	IsHosting bool
}

// ReputationClient looks up IP reputation from an external provider. No
// provider is bundled; deployments wire one in when they have a data
// source, and the VPN detector stays silent until then.
type ReputationClient interface {
	Lookup(ctx context.Context, ip string) (*Reputation, error)
}
