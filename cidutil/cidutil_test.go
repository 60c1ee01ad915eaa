package cidutil

import (
	"bytes"
	"testing"

	"github.com/multiformats/go-multihash"

	"saorsa.dev/logic/data"
)

func TestCIDDeterministic(t *testing.T) {
	payload := []byte("cid determinism")
	a := CIDv1RawBlake3(payload)
	b := CIDv1RawBlake3(payload)
	if a == "" || a != b {
		t.Fatalf("expected stable non-empty CID, got %q and %q", a, b)
	}
}

func TestCIDDigestMatchesContentHash(t *testing.T) {
	payload := []byte("the CID digest is the content hash")

	id, err := CIDv1RawBlake3CID(payload)
	if err != nil {
		t.Fatalf("CIDv1RawBlake3CID: %v", err)
	}
	decoded, err := multihash.Decode(id.Hash())
	if err != nil {
		t.Fatalf("multihash.Decode: %v", err)
	}
	if decoded.Code != multihash.BLAKE3 {
		t.Fatalf("expected blake3 multihash, got code %d", decoded.Code)
	}

	want := data.ComputeContentHash(payload)
	if !bytes.Equal(decoded.Digest, want[:]) {
		t.Fatalf("CID digest does not match ComputeContentHash")
	}
}

func TestCIDSensitivity(t *testing.T) {
	if CIDv1RawBlake3([]byte("a")) == CIDv1RawBlake3([]byte("b")) {
		t.Fatalf("distinct content produced the same CID")
	}
}
