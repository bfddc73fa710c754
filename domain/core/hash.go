package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint represents a deterministic digest of an analysis input set
type Fingerprint Hash

// String returns the string representation
func (f Fingerprint) String() string { return Hash(f).String() }

// ComputeFingerprint builds a deterministic fingerprint from labelled
// identifier groups. Group order is fixed by the caller; identifiers within
// a group are sorted so that set inputs hash identically regardless of the
// order they were supplied in.
func ComputeFingerprint(groups ...[]string) Fingerprint {
	var data strings.Builder
	for _, group := range groups {
		ids := make([]string, len(group))
		copy(ids, group)
		sort.Strings(ids)
		for _, id := range ids {
			data.WriteString(id)
			data.WriteByte('\x1f')
		}
		data.WriteByte('\x1e')
	}
	return Fingerprint(NewHash([]byte(data.String())))
}
