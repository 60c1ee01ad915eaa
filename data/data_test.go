package data

import (
	"testing"

	"saorsa.dev/logic/model"
)

func TestContentHashRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("a"),
		[]byte("saorsa content addressing"),
		make([]byte, 4096),
	}
	for _, c := range cases {
		h := ComputeContentHash(c)
		if !VerifyContentHash(c, h) {
			t.Fatalf("round trip failed for %d-byte content", len(c))
		}
	}
}

func TestContentHashDeterministic(t *testing.T) {
	payload := []byte("deterministic payload")
	a := ComputeContentHash(payload)
	b := ComputeContentHash(payload)
	if a != b {
		t.Fatalf("equal content produced different hashes: %s vs %s",
			model.FormatHash(a), model.FormatHash(b))
	}
}

func TestContentHashSensitivity(t *testing.T) {
	a := ComputeContentHash([]byte("content A"))
	b := ComputeContentHash([]byte("content B"))
	if a == b {
		t.Fatalf("distinct content produced the same hash")
	}

	if VerifyContentHash([]byte("content A"), b) {
		t.Fatalf("expected mismatched hash to fail verification")
	}

	var tampered model.Hash = a
	tampered[0] ^= 0x01
	if VerifyContentHash([]byte("content A"), tampered) {
		t.Fatalf("expected tampered hash to fail verification")
	}
}

func TestEmptyAndNilAgree(t *testing.T) {
	if ComputeContentHash(nil) != ComputeContentHash([]byte{}) {
		t.Fatalf("nil and empty content must hash identically")
	}
}
