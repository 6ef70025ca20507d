package models

import "strings"

// Key identifies one counter. Scope partitions counters (per match) so the
// same identifier has independent budgets across matches; an empty scope
// means the counter is global for its purpose.
type Key struct {
	Purpose    Purpose
	Identifier string
	Scope      string
}

// NewKey builds a counter key from its segments.
func NewKey(purpose Purpose, identifier, scope string) Key {
	return Key{Purpose: purpose, Identifier: identifier, Scope: scope}
}

// String renders the storage key: rl:{purpose}:{identifier}[:{scope}].
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("rl:")
	b.WriteString(string(k.Purpose))
	b.WriteString(":")
	b.WriteString(SanitizeKeySegment(k.Identifier))
	if k.Scope != "" {
		b.WriteString(":")
		b.WriteString(SanitizeKeySegment(k.Scope))
	}
	return b.String()
}

// SanitizeKeySegment escapes delimiter characters in counter key segments
// to prevent key collision attacks where caller-controlled identifiers
// containing ':' could manipulate adjacent counters.
//
// Example: an identifier "match:final" would become "match_final",
// preventing it from being interpreted as a separate key segment.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
