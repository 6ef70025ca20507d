// Package identity derives the opaque identifiers used throughout the
// pipeline. Raw IP addresses and device fingerprints never reach a store or
// an emitted event; every key, counter, and tracked set is built from the
// keyed hashes produced here.
package identity

import (
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// Domain separation prefixes so an IP can never collide with a fingerprint
// even if a client submits one as the other.
const (
	prefixIP          = "ip:"
	prefixFingerprint = "fp:"
)

// Hasher produces keyed BLAKE2b-256 digests of client identifiers. The key
// keeps digests non-reversible by rainbow table even for low-entropy inputs
// like IPv4 addresses.
type Hasher struct {
	key []byte
}

// NewHasher creates a Hasher from the configured key. Keys longer than the
// BLAKE2b limit are pre-digested.
func NewHasher(key string) (*Hasher, error) {
	if key == "" {
		return nil, errors.New("identity hash key is required")
	}

	kb := []byte(key)
	if len(kb) > blake2b.Size {
		sum := blake2b.Sum256(kb)
		kb = sum[:]
	}

	// Validate the key once up front so per-request hashing cannot fail.
	if _, err := blake2b.New256(kb); err != nil {
		return nil, err
	}

	return &Hasher{key: kb}, nil
}

// HashIP returns the hex digest for an IP address.
func (h *Hasher) HashIP(ip string) string {
	return h.hash(prefixIP, ip)
}

// HashFingerprint returns the hex digest for a device fingerprint.
func (h *Hasher) HashFingerprint(fingerprint string) string {
	return h.hash(prefixFingerprint, fingerprint)
}

func (h *Hasher) hash(prefix, value string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// Key was validated in NewHasher; New256 cannot fail here.
		panic(err)
	}
	mac.Write([]byte(prefix))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
