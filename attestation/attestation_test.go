package attestation

import (
	"testing"

	"saorsa.dev/logic/model"
)

func testKey(fill byte) []byte {
	k := make([]byte, model.PublicKeySize)
	for i := range k {
		k[i] = fill
	}
	return k
}

func testDigest(fill byte) []byte {
	d := make([]byte, model.HashSize)
	for i := range d {
		d[i] = fill
	}
	return d
}

func TestDeriveVerifyRoundTrip(t *testing.T) {
	pk := testKey(0x5a)
	bd := testDigest(0xc3)

	id, err := DeriveEntangledID(pk, bd, 42)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}
	ok, err := VerifyEntangledID(id, pk, bd, 42)
	if err != nil {
		t.Fatalf("VerifyEntangledID: %v", err)
	}
	if !ok {
		t.Fatalf("expected round-trip verification to succeed")
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	pk := testKey(0x11)
	bd := testDigest(0x22)

	a, err := DeriveEntangledID(pk, bd, 7)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}
	b, err := DeriveEntangledID(pk, bd, 7)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}
	if a != b {
		t.Fatalf("equal inputs produced different IDs: %s vs %s", model.FormatHash(a), model.FormatHash(b))
	}
}

func TestDeriveSensitivity(t *testing.T) {
	pk := testKey(0x00)
	bd := testDigest(0x01)

	base, err := DeriveEntangledID(pk, bd, 1000)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}

	otherNonce, err := DeriveEntangledID(pk, bd, 1001)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}
	if base == otherNonce {
		t.Fatalf("different nonces produced the same ID")
	}

	otherKey := testKey(0x00)
	otherKey[0] ^= 0x01
	fromOtherKey, err := DeriveEntangledID(otherKey, bd, 1000)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}
	if base == fromOtherKey {
		t.Fatalf("different keys produced the same ID")
	}

	otherDigest := testDigest(0x01)
	otherDigest[31] ^= 0x80
	fromOtherDigest, err := DeriveEntangledID(pk, otherDigest, 1000)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}
	if base == fromOtherDigest {
		t.Fatalf("different binary digests produced the same ID")
	}
}

// The fixed scenario used across implementations: all-zero key, all-0x01
// digest, nonce 12345.
func TestConcreteScenario(t *testing.T) {
	pk := testKey(0x00)
	bd := testDigest(0x01)

	id, err := DeriveEntangledID(pk, bd, 12345)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}

	ok, err := VerifyEntangledID(id, pk, bd, 12345)
	if err != nil {
		t.Fatalf("VerifyEntangledID: %v", err)
	}
	if !ok {
		t.Fatalf("expected verification with matching inputs to succeed")
	}

	ok, err = VerifyEntangledID(id, pk, bd, 12346)
	if err != nil {
		t.Fatalf("VerifyEntangledID: %v", err)
	}
	if ok {
		t.Fatalf("expected verification with wrong nonce to fail")
	}
}

func TestDeriveErrorTaxonomy(t *testing.T) {
	bd := testDigest(0x01)

	shortKey := make([]byte, model.PublicKeySize-1)
	_, err := DeriveEntangledID(shortKey, bd, 1)
	if err == nil {
		t.Fatalf("expected error for short public key")
	}
	if !model.IsKind(err, model.KindInvalidLength) {
		t.Fatalf("expected KindInvalidLength, got %v", err)
	}
	if model.RuleID(err) != "SL-LEN-001" {
		t.Fatalf("expected SL-LEN-001, got %s", model.RuleID(err))
	}

	_, err = DeriveEntangledID(testKey(0), bd[:31], 1)
	if err == nil {
		t.Fatalf("expected error for short binary digest")
	}
	if model.RuleID(err) != "SL-LEN-002" {
		t.Fatalf("expected SL-LEN-002, got %s", model.RuleID(err))
	}

	// Verify surfaces the same structural errors instead of returning false.
	_, err = VerifyEntangledID(model.Hash{}, shortKey, bd, 1)
	if !model.IsKind(err, model.KindInvalidLength) {
		t.Fatalf("expected KindInvalidLength from verify, got %v", err)
	}
}

func TestComponents(t *testing.T) {
	c := Components{PublicKey: testKey(0x77), BinaryDigest: testDigest(0x33), Nonce: 9}

	id, err := c.Derive()
	if err != nil {
		t.Fatalf("Components.Derive: %v", err)
	}
	direct, err := DeriveEntangledID(c.PublicKey, c.BinaryDigest, c.Nonce)
	if err != nil {
		t.Fatalf("DeriveEntangledID: %v", err)
	}
	if id != direct {
		t.Fatalf("Components.Derive disagrees with DeriveEntangledID")
	}

	ok, err := c.Verify(id)
	if err != nil {
		t.Fatalf("Components.Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected Components.Verify to succeed")
	}
}
