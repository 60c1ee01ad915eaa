package model

import (
	"encoding/hex"
	"fmt"
)

// PublicKeySize is the byte length of an ML-DSA-65 public key, the
// signature scheme used by the network.
const PublicKeySize = 1952

// HashSize is the byte length of every digest in the system: binary
// digests, content hashes, entangled IDs and Merkle nodes.
const HashSize = 32

// Hash is a 32-byte BLAKE3 digest. BinaryDigest, ContentHash, EntangledID
// and Merkle leaves/roots are all this type; what a Hash means is
// determined by the domain tag it was computed under, never by its Go type.
type Hash [HashSize]byte

// String returns the canonical lowercase-hex representation.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalText encodes the hash as lowercase hex.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a 64-character hex string.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// FormatHash returns the canonical lowercase-hex representation of a hash.
func FormatHash(hash Hash) string {
	return hex.EncodeToString(hash[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing hash: %w", err)
	}
	if len(decoded) != HashSize {
		return hash, fmt.Errorf("hash is %d bytes, want %d", len(decoded), HashSize)
	}
	copy(hash[:], decoded)
	return hash, nil
}
