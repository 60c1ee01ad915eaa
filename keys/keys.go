package keys

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"

	"saorsa.dev/logic/model"
)

// SeedSize is the byte length of an ML-DSA-65 keypair seed.
const SeedSize = mldsa65.SeedSize

// nodeKeyPrefix tags the string encoding of a node's public key.
const nodeKeyPrefix = "mldsa65:"

// GenerateKeypair returns a fresh ML-DSA-65 keypair from rand.
func GenerateKeypair(rand io.Reader) (*mldsa65.PublicKey, *mldsa65.PrivateKey, error) {
	return mldsa65.GenerateKey(rand)
}

// KeypairFromSeed deterministically expands a 32-byte seed into an
// ML-DSA-65 keypair.
func KeypairFromSeed(seed []byte) (*mldsa65.PublicKey, *mldsa65.PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	var fixed [SeedSize]byte
	copy(fixed[:], seed)
	pub, priv := mldsa65.NewKeyFromSeed(&fixed)
	return pub, priv, nil
}

// PublicKeyBytes returns the packed public key. The result is always
// model.PublicKeySize bytes.
func PublicKeyBytes(pub *mldsa65.PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, errors.New("missing public key")
	}
	b, err := pub.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if len(b) != model.PublicKeySize {
		return nil, fmt.Errorf("packed public key is %d bytes, want %d", len(b), model.PublicKeySize)
	}
	return b, nil
}

// ParsePublicKey unpacks a model.PublicKeySize-byte public key.
func ParsePublicKey(b []byte) (*mldsa65.PublicKey, error) {
	if len(b) != model.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", model.PublicKeySize, len(b))
	}
	pub := new(mldsa65.PublicKey)
	if err := pub.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("unpacking public key: %w", err)
	}
	return pub, nil
}

// NodeKeyFromPublicKey encodes a public key as the node-key string
// "mldsa65:" + base64(key).
func NodeKeyFromPublicKey(pub *mldsa65.PublicKey) (string, error) {
	b, err := PublicKeyBytes(pub)
	if err != nil {
		return "", err
	}
	return nodeKeyPrefix + base64.StdEncoding.EncodeToString(b), nil
}

// NodeKeyFromSeed returns the node-key string for the keypair expanded from
// seed.
func NodeKeyFromSeed(seed []byte) (string, error) {
	pub, _, err := KeypairFromSeed(seed)
	if err != nil {
		return "", err
	}
	return NodeKeyFromPublicKey(pub)
}

// ParseNodeKey decodes a node-key string back into a public key.
func ParseNodeKey(s string) (*mldsa65.PublicKey, error) {
	if !strings.HasPrefix(s, nodeKeyPrefix) {
		return nil, fmt.Errorf("unsupported node key %q", s)
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, nodeKeyPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid node key encoding: %w", err)
	}
	return ParsePublicKey(b)
}
