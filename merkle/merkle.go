// Package merkle builds and verifies inclusion proofs over an ordered
// sequence of already-hashed 32-byte leaves.
//
// Leaf and internal nodes are hashed under distinct domain tags so that a
// leaf can never be reinterpreted as an internal node (second-preimage
// hardening, RFC 6962 style). When a level has an odd number of nodes the
// last node is paired with itself, so every level pairs fully and a proof's
// length always equals the tree height.
package merkle

import (
	"fmt"

	"lukechampine.com/blake3"

	"saorsa.dev/logic/model"
)

// Domain tags for node hashing. Fixed protocol constants: changing either
// invalidates every existing root and proof.
const (
	TagLeaf     byte = 0x00
	TagInternal byte = 0x01
)

// Side records where a proof step's sibling sits relative to the running
// hash.
type Side uint8

const (
	// SiblingRight means the sibling is the right child; the running hash
	// is the left child. This is the side for even positions.
	SiblingRight Side = iota

	// SiblingLeft means the sibling is the left child; the running hash is
	// the right child. This is the side for odd positions.
	SiblingLeft
)

// ProofStep is one level of an inclusion proof: the sibling hash and which
// side it combines on.
type ProofStep struct {
	Sibling model.Hash
	Side    Side
}

// Proof is an ordered sequence of steps from the leaf level up to the root.
type Proof []ProofStep

// leafNode hashes an already-hashed leaf into its level-0 tree node.
func leafNode(leaf model.Hash) model.Hash {
	var buf [1 + model.HashSize]byte
	buf[0] = TagLeaf
	copy(buf[1:], leaf[:])
	return model.Hash(blake3.Sum256(buf[:]))
}

// internalNode combines two child nodes into their parent.
func internalNode(left, right model.Hash) model.Hash {
	var buf [1 + 2*model.HashSize]byte
	buf[0] = TagInternal
	copy(buf[1:], left[:])
	copy(buf[1+model.HashSize:], right[:])
	return model.Hash(blake3.Sum256(buf[:]))
}

// Height returns the tree height for n leaves: ceil(log2(n)), with a
// single-leaf tree having height zero.
func Height(n int) int {
	h := 0
	for span := 1; span < n; span <<= 1 {
		h++
	}
	return h
}

// Root computes the Merkle root of the ordered leaves. A single-leaf tree's
// root is the tagged leaf node, not the raw leaf.
func Root(leaves []model.Hash) (model.Hash, error) {
	if len(leaves) == 0 {
		return model.Hash{}, model.NewError(model.KindMalformedProof, "SL-PRF-003",
			"cannot build a tree over zero leaves")
	}

	level := make([]model.Hash, len(leaves))
	for i, leaf := range leaves {
		level[i] = leafNode(leaf)
	}

	for len(level) > 1 {
		next := level[:0]
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, internalNode(level[i], right))
		}
		level = next
	}
	return level[0], nil
}

// BuildProof returns the inclusion proof for leaves[index]: the sibling and
// side at every level from the leaf up to (but excluding) the root. The
// proof has exactly Height(len(leaves)) steps.
func BuildProof(leaves []model.Hash, index int) (Proof, error) {
	if len(leaves) == 0 {
		return nil, model.NewError(model.KindMalformedProof, "SL-PRF-003",
			"cannot build a tree over zero leaves")
	}
	if index < 0 || index >= len(leaves) {
		return nil, model.NewError(model.KindMalformedProof, "SL-PRF-001",
			fmt.Sprintf("index %d out of range for %d leaves", index, len(leaves)))
	}

	level := make([]model.Hash, len(leaves))
	for i, leaf := range leaves {
		level[i] = leafNode(leaf)
	}

	proof := make(Proof, 0, Height(len(leaves)))
	pos := index
	for len(level) > 1 {
		sibling := pos ^ 1
		if sibling >= len(level) {
			// Odd level end: the node is paired with itself.
			sibling = pos
		}
		side := SiblingRight
		if pos%2 == 1 {
			side = SiblingLeft
		}
		proof = append(proof, ProofStep{Sibling: level[sibling], Side: side})

		next := level[:0]
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, internalNode(level[i], right))
		}
		level = next
		pos >>= 1
	}
	return proof, nil
}

// VerifyProof reports whether leafHash at index is included in the tree
// with the claimed root, according to proof.
//
// Structural violations (an index that cannot exist in a tree of the
// proof's height, or a recorded side contradicting the index parity at that
// level) are MalformedProof errors. A final hash mismatch is an ordinary
// false result.
func VerifyProof(leafHash model.Hash, index int, proof Proof, root model.Hash) (bool, error) {
	if index < 0 {
		return false, model.NewError(model.KindMalformedProof, "SL-PRF-001",
			fmt.Sprintf("negative leaf index %d", index))
	}
	if len(proof) < 63 && index >= 1<<uint(len(proof)) {
		return false, model.NewError(model.KindMalformedProof, "SL-PRF-004",
			fmt.Sprintf("index %d not representable in a tree of height %d", index, len(proof)))
	}

	running := leafNode(leafHash)
	pos := index
	for i, step := range proof {
		want := SiblingRight
		if pos%2 == 1 {
			want = SiblingLeft
		}
		if step.Side != want {
			return false, model.NewError(model.KindMalformedProof, "SL-PRF-002",
				fmt.Sprintf("step %d records side %d, position requires %d", i, step.Side, want))
		}
		if step.Side == SiblingRight {
			running = internalNode(running, step.Sibling)
		} else {
			running = internalNode(step.Sibling, running)
		}
		pos >>= 1
	}
	return running == root, nil
}
