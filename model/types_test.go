package model

import (
	"strings"
	"testing"
)

func TestFormatParseHashRoundTrip(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(i)
	}
	s := FormatHash(h)
	if len(s) != HashSize*2 {
		t.Fatalf("expected %d hex chars, got %d", HashSize*2, len(s))
	}
	got, err := ParseHash(s)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: %s vs %s", FormatHash(got), s)
	}
}

func TestHashTextRoundTrip(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(0xF0 + i)
	}
	text, err := h.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != h.String() {
		t.Fatalf("MarshalText %q != String %q", text, h.String())
	}
	var got Hash
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: %s vs %s", got, h)
	}
	if err := got.UnmarshalText([]byte("zz")); err == nil {
		t.Fatalf("expected error for non-hex text")
	}
}

func TestParseHashRejectsWrongLength(t *testing.T) {
	if _, err := ParseHash(strings.Repeat("ab", HashSize-1)); err == nil {
		t.Fatalf("expected error for short hash")
	}
	if _, err := ParseHash("zz"); err == nil {
		t.Fatalf("expected error for non-hex input")
	}
}

func TestErrorTaxonomyHelpers(t *testing.T) {
	err := NewError(KindInvalidLength, "SL-LEN-001", "public key must be 1952 bytes")
	if !IsKind(err, KindInvalidLength) {
		t.Fatalf("expected KindInvalidLength")
	}
	if IsKind(err, KindMalformedProof) {
		t.Fatalf("did not expect KindMalformedProof")
	}
	if RuleID(err) != "SL-LEN-001" {
		t.Fatalf("expected SL-LEN-001, got %s", RuleID(err))
	}

	wrapped := WrapError(KindHashingFailed, "SL-HASH-001", "digest failed", err)
	if !IsKind(wrapped, KindHashingFailed) {
		t.Fatalf("expected KindHashingFailed")
	}
	if RuleID(wrapped) != "SL-HASH-001" {
		t.Fatalf("expected SL-HASH-001, got %s", RuleID(wrapped))
	}
}
