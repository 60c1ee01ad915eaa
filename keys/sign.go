package keys

import (
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"

	"saorsa.dev/logic/model"
)

// SignatureSize is the byte length of an ML-DSA-65 signature.
const SignatureSize = mldsa65.SignatureSize

// SignBinaryDigest signs a 32-byte binary digest with deterministic
// ML-DSA-65. Upgrade authorities use this to authorize a build; nodes bind
// the digest into their entangled ID.
func SignBinaryDigest(priv *mldsa65.PrivateKey, digest model.Hash) ([]byte, error) {
	if priv == nil {
		return nil, errors.New("missing private key")
	}
	sig := make([]byte, SignatureSize)
	if err := mldsa65.SignTo(priv, digest[:], nil, false, sig); err != nil {
		return nil, fmt.Errorf("signing binary digest: %w", err)
	}
	return sig, nil
}

// VerifyBinaryDigest reports whether sig is a valid ML-DSA-65 signature
// over digest by pub.
func VerifyBinaryDigest(pub *mldsa65.PublicKey, digest model.Hash, sig []byte) bool {
	if pub == nil || len(sig) != SignatureSize {
		return false
	}
	return mldsa65.Verify(pub, digest[:], nil, sig)
}
