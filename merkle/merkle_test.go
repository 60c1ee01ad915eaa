package merkle

import (
	"testing"

	"saorsa.dev/logic/data"
	"saorsa.dev/logic/model"
)

// testLeaves returns n distinct already-hashed leaves.
func testLeaves(n int) []model.Hash {
	leaves := make([]model.Hash, n)
	for i := range leaves {
		leaves[i] = data.ComputeContentHash([]byte{byte(i), byte(i >> 8), 0xfe})
	}
	return leaves
}

func TestHeight(t *testing.T) {
	cases := []struct{ n, want int }{
		{1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {7, 3}, {8, 3}, {9, 4},
	}
	for _, c := range cases {
		if got := Height(c.n); got != c.want {
			t.Fatalf("Height(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestRoundTripAllIndices(t *testing.T) {
	for n := 1; n <= 9; n++ {
		leaves := testLeaves(n)
		root, err := Root(leaves)
		if err != nil {
			t.Fatalf("Root(n=%d): %v", n, err)
		}
		for i := 0; i < n; i++ {
			proof, err := BuildProof(leaves, i)
			if err != nil {
				t.Fatalf("BuildProof(n=%d, i=%d): %v", n, i, err)
			}
			if len(proof) != Height(n) {
				t.Fatalf("proof length %d, want height %d (n=%d)", len(proof), Height(n), n)
			}
			ok, err := VerifyProof(leaves[i], i, proof, root)
			if err != nil {
				t.Fatalf("VerifyProof(n=%d, i=%d): %v", n, i, err)
			}
			if !ok {
				t.Fatalf("proof for leaf %d of %d did not verify", i, n)
			}
		}
	}
}

func TestRootDeterministic(t *testing.T) {
	leaves := testLeaves(5)
	a, err := Root(leaves)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	b, err := Root(leaves)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if a != b {
		t.Fatalf("equal leaves produced different roots")
	}
}

func TestRootOrderSensitive(t *testing.T) {
	leaves := testLeaves(4)
	a, err := Root(leaves)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	swapped := append([]model.Hash(nil), leaves...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	b, err := Root(swapped)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if a == b {
		t.Fatalf("leaf order must affect the root")
	}
}

func TestSingleLeafRootIsTagged(t *testing.T) {
	leaf := testLeaves(1)[0]
	root, err := Root([]model.Hash{leaf})
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root == leaf {
		t.Fatalf("single-leaf root must not equal the raw leaf (leaf tagging)")
	}
}

func TestTamperDetection(t *testing.T) {
	leaves := testLeaves(7)
	root, err := Root(leaves)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	const index = 3
	proof, err := BuildProof(leaves, index)
	if err != nil {
		t.Fatalf("BuildProof: %v", err)
	}

	// Flip each bit of the leaf.
	for bit := 0; bit < model.HashSize*8; bit++ {
		tampered := leaves[index]
		tampered[bit/8] ^= 1 << uint(bit%8)
		ok, err := VerifyProof(tampered, index, proof, root)
		if err != nil {
			t.Fatalf("VerifyProof(tampered leaf bit %d): %v", bit, err)
		}
		if ok {
			t.Fatalf("tampered leaf bit %d verified", bit)
		}
	}

	// Flip one bit in each proof step's sibling.
	for step := range proof {
		tampered := append(Proof(nil), proof...)
		tampered[step].Sibling[0] ^= 0x01
		ok, err := VerifyProof(leaves[index], index, tampered, root)
		if err != nil {
			t.Fatalf("VerifyProof(tampered step %d): %v", step, err)
		}
		if ok {
			t.Fatalf("tampered sibling at step %d verified", step)
		}
	}

	// Flip one bit in the claimed root.
	tamperedRoot := root
	tamperedRoot[31] ^= 0x80
	ok, err := VerifyProof(leaves[index], index, proof, tamperedRoot)
	if err != nil {
		t.Fatalf("VerifyProof(tampered root): %v", err)
	}
	if ok {
		t.Fatalf("tampered root verified")
	}
}

func TestMalformedProofTaxonomy(t *testing.T) {
	leaves := testLeaves(4)
	root, err := Root(leaves)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	proof, err := BuildProof(leaves, 2)
	if err != nil {
		t.Fatalf("BuildProof: %v", err)
	}

	// Empty leaf set.
	if _, err := Root(nil); !model.IsKind(err, model.KindMalformedProof) {
		t.Fatalf("Root(nil): expected KindMalformedProof, got %v", err)
	}
	if _, err := BuildProof(nil, 0); model.RuleID(err) != "SL-PRF-003" {
		t.Fatalf("BuildProof(nil): expected SL-PRF-003, got %v", err)
	}

	// Out-of-range build index.
	if _, err := BuildProof(leaves, 4); model.RuleID(err) != "SL-PRF-001" {
		t.Fatalf("BuildProof(oob): expected SL-PRF-001, got %v", err)
	}
	if _, err := BuildProof(leaves, -1); !model.IsKind(err, model.KindMalformedProof) {
		t.Fatalf("BuildProof(-1): expected KindMalformedProof, got %v", err)
	}

	// Truncated proof: index 2 needs height 2, a 1-step proof cannot hold it.
	if _, err := VerifyProof(leaves[2], 2, proof[:1], root); model.RuleID(err) != "SL-PRF-004" {
		t.Fatalf("VerifyProof(truncated): expected SL-PRF-004, got %v", err)
	}

	// Side contradicting the index parity.
	flipped := append(Proof(nil), proof...)
	if flipped[0].Side == SiblingRight {
		flipped[0].Side = SiblingLeft
	} else {
		flipped[0].Side = SiblingRight
	}
	if _, err := VerifyProof(leaves[2], 2, flipped, root); model.RuleID(err) != "SL-PRF-002" {
		t.Fatalf("VerifyProof(flipped side): expected SL-PRF-002, got %v", err)
	}

	// A wrong root with a well-formed proof is false, not an error.
	ok, err := VerifyProof(leaves[2], 2, proof, model.Hash{})
	if err != nil {
		t.Fatalf("VerifyProof(wrong root): %v", err)
	}
	if ok {
		t.Fatalf("wrong root verified")
	}
}

func TestDuplicateLastConvention(t *testing.T) {
	// In a 3-leaf tree, leaf 2 is paired with itself at level 0: its first
	// proof step must be its own tagged node reference, recorded as a
	// right-hand sibling equal to itself.
	leaves := testLeaves(3)
	proof, err := BuildProof(leaves, 2)
	if err != nil {
		t.Fatalf("BuildProof: %v", err)
	}
	if len(proof) != 2 {
		t.Fatalf("expected height-2 proof, got %d steps", len(proof))
	}
	if proof[0].Side != SiblingRight {
		t.Fatalf("self-paired node must record a right sibling")
	}
	root, err := Root(leaves)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	ok, err := VerifyProof(leaves[2], 2, proof, root)
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if !ok {
		t.Fatalf("proof over duplicated node did not verify")
	}
}
