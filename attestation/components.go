package attestation

import "saorsa.dev/logic/model"

// Components bundles the three inputs of an entangled-ID derivation. It is
// a convenience for callers that pass the tuple around (e.g. a zkVM guest
// reading all three from prover input); the derivation itself is identical
// to DeriveEntangledID.
type Components struct {
	PublicKey    []byte
	BinaryDigest []byte
	Nonce        uint64
}

// Derive computes the entangled ID for the bundled components.
func (c Components) Derive() (model.Hash, error) {
	return DeriveEntangledID(c.PublicKey, c.BinaryDigest, c.Nonce)
}

// Verify reports whether id is the entangled ID for the bundled components.
func (c Components) Verify(id model.Hash) (bool, error) {
	return VerifyEntangledID(id, c.PublicKey, c.BinaryDigest, c.Nonce)
}
