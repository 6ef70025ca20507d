package models

import "testing"

func TestKeyString(t *testing.T) {
	t.Run("scoped key", func(t *testing.T) {
		k := NewKey(PurposeVoteFingerprint, "abcd1234", "match-7")
		if got, want := k.String(), "rl:vote_fp:abcd1234:match-7"; got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("global key omits scope segment", func(t *testing.T) {
		k := NewKey(PurposeAPI, "abcd1234", "")
		if got, want := k.String(), "rl:api:abcd1234"; got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("delimiters in segments are escaped", func(t *testing.T) {
		k := NewKey(PurposeVoteIP, "evil:id", "match:1")
		if got, want := k.String(), "rl:vote_ip:evil_id:match_1"; got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestSanitizeKeySegment(t *testing.T) {
	if got := SanitizeKeySegment("a:b:c"); got != "a_b_c" {
		t.Fatalf("expected a_b_c, got %q", got)
	}
	if got := SanitizeKeySegment("clean"); got != "clean" {
		t.Fatalf("expected clean, got %q", got)
	}
}
