// Package attestation implements Entangled Attestation: deriving and
// verifying the identity value that binds a node's public key to the
// digest of the binary it is authorized to run.
//
// The derivation is a pure function of its inputs. The same bytes produce
// the same EntangledID on a native CPU and inside a zkVM guest, so a prover
// can commit the result as a public output.
package attestation

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"lukechampine.com/blake3"

	"saorsa.dev/logic/model"
)

// domainTag separates entangled-ID derivation from every other BLAKE3 use
// in the system. Changing it invalidates all existing identities.
var domainTag = []byte("saorsa-entangled-id-v1")

// DeriveEntangledID derives the identity binding (publicKey, binaryDigest,
// nonce): BLAKE3 over the domain tag, the public key bytes, the binary
// digest bytes, and the little-endian nonce, in that order.
//
// publicKey must be model.PublicKeySize bytes and binaryDigest
// model.HashSize bytes; anything else is an InvalidLength error, reported
// before any hashing occurs.
func DeriveEntangledID(publicKey, binaryDigest []byte, nonce uint64) (model.Hash, error) {
	if len(publicKey) != model.PublicKeySize {
		return model.Hash{}, model.NewError(model.KindInvalidLength, "SL-LEN-001",
			fmt.Sprintf("public key is %d bytes, want %d", len(publicKey), model.PublicKeySize))
	}
	if len(binaryDigest) != model.HashSize {
		return model.Hash{}, model.NewError(model.KindInvalidLength, "SL-LEN-002",
			fmt.Sprintf("binary digest is %d bytes, want %d", len(binaryDigest), model.HashSize))
	}

	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)

	h := blake3.New(model.HashSize, nil)
	_, _ = h.Write(domainTag)
	_, _ = h.Write(publicKey)
	_, _ = h.Write(binaryDigest)
	_, _ = h.Write(nonceBytes[:])

	var id model.Hash
	copy(id[:], h.Sum(nil))
	return id, nil
}

// VerifyEntangledID recomputes the derivation and compares it against id in
// constant time. A mismatch is an ordinary false result; only wrong-sized
// inputs produce an error.
func VerifyEntangledID(id model.Hash, publicKey, binaryDigest []byte, nonce uint64) (bool, error) {
	derived, err := DeriveEntangledID(publicKey, binaryDigest, nonce)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(id[:], derived[:]) == 1, nil
}
