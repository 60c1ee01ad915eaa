// Package data implements content hashing for content-addressed storage:
// a fixed-size BLAKE3 digest over arbitrary bytes, and its verification.
package data

import (
	"crypto/subtle"

	"lukechampine.com/blake3"

	"saorsa.dev/logic/model"
)

// ComputeContentHash returns the BLAKE3 digest of data. Content of any
// length is accepted; the empty input has a well-defined hash.
func ComputeContentHash(data []byte) model.Hash {
	return model.Hash(blake3.Sum256(data))
}

// VerifyContentHash reports whether data hashes to expected. The
// comparison is constant time; a mismatch is never an error.
func VerifyContentHash(data []byte, expected model.Hash) bool {
	got := ComputeContentHash(data)
	return subtle.ConstantTimeCompare(got[:], expected[:]) == 1
}
