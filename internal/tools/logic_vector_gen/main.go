// Command logic_vector_gen prints conformance vectors for the attestation,
// content hashing and Merkle packages as JSON on stdout.
//
// Vectors are fully deterministic: keys come from fixed seeds and all inputs
// are fixed byte patterns, so regenerating the output must be byte-identical
// across platforms.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"saorsa.dev/logic/attestation"
	"saorsa.dev/logic/data"
	"saorsa.dev/logic/keys"
	"saorsa.dev/logic/merkle"
	"saorsa.dev/logic/model"
)

type attestationVector struct {
	// KeyFill is set when the public key is a raw fill pattern; SeedFill
	// when it is expanded from a fixed ML-DSA-65 seed.
	KeyFill      *byte      `json:"key_fill,omitempty"`
	SeedFill     *byte      `json:"seed_fill,omitempty"`
	BinaryDigest model.Hash `json:"binary_digest"`
	Nonce        uint64     `json:"nonce"`
	EntangledID  model.Hash `json:"entangled_id"`
}

type hashVector struct {
	Input string     `json:"input"`
	Hash  model.Hash `json:"hash"`
}

type merkleStep struct {
	Side    string     `json:"side"`
	Sibling model.Hash `json:"sibling"`
}

type merkleVector struct {
	Leaves []model.Hash `json:"leaves"`
	Root   model.Hash   `json:"root"`
	Index  int          `json:"index"`
	Proof  []merkleStep `json:"proof"`
}

type vectors struct {
	Attestation []attestationVector `json:"attestation"`
	Hash        []hashVector        `json:"hash"`
	Merkle      []merkleVector      `json:"merkle"`
}

func seededPublicKey(fill byte) []byte {
	seed := make([]byte, keys.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	pub, _, err := keys.KeypairFromSeed(seed)
	if err != nil {
		panic(err)
	}
	b, err := keys.PublicKeyBytes(pub)
	if err != nil {
		panic(err)
	}
	return b
}

func patternDigest(fill byte) model.Hash {
	var h model.Hash
	for i := range h {
		h[i] = fill
	}
	return h
}

func attestationVectors() []attestationVector {
	var out []attestationVector

	// Raw fill-pattern keys: the all-zero key with the 0x01 digest at
	// nonces 12345 and 12346 is the cross-implementation smoke case.
	for _, v := range []struct {
		keyFill    byte
		digestFill byte
		nonce      uint64
	}{
		{0x00, 0x01, 12345},
		{0x00, 0x01, 12346},
	} {
		pk := make([]byte, model.PublicKeySize)
		for i := range pk {
			pk[i] = v.keyFill
		}
		digest := patternDigest(v.digestFill)
		id, err := attestation.DeriveEntangledID(pk, digest[:], v.nonce)
		if err != nil {
			panic(err)
		}
		keyFill := v.keyFill
		out = append(out, attestationVector{
			KeyFill:      &keyFill,
			BinaryDigest: digest,
			Nonce:        v.nonce,
			EntangledID:  id,
		})
	}

	// Real ML-DSA-65 keys expanded from fixed seeds.
	for _, v := range []struct {
		seedFill   byte
		digestFill byte
		nonce      uint64
	}{
		{0x00, 0x01, 0},
		{0xA1, 0x42, 12345},
		{0xA1, 0x42, 12346},
	} {
		pk := seededPublicKey(v.seedFill)
		digest := patternDigest(v.digestFill)
		id, err := attestation.DeriveEntangledID(pk, digest[:], v.nonce)
		if err != nil {
			panic(err)
		}
		seedFill := v.seedFill
		out = append(out, attestationVector{
			SeedFill:     &seedFill,
			BinaryDigest: digest,
			Nonce:        v.nonce,
			EntangledID:  id,
		})
	}
	return out
}

func hashVectors() []hashVector {
	var out []hashVector
	for _, input := range []string{"", "saorsa", "The quick brown fox jumps over the lazy dog"} {
		out = append(out, hashVector{
			Input: input,
			Hash:  data.ComputeContentHash([]byte(input)),
		})
	}
	return out
}

func merkleVectors() []merkleVector {
	var out []merkleVector
	for _, n := range []int{1, 3, 4, 7} {
		leaves := make([]model.Hash, n)
		for i := range leaves {
			leaves[i] = data.ComputeContentHash([]byte(fmt.Sprintf("leaf-%d", i)))
		}
		root, err := merkle.Root(leaves)
		if err != nil {
			panic(err)
		}
		index := n - 1
		proof, err := merkle.BuildProof(leaves, index)
		if err != nil {
			panic(err)
		}
		steps := make([]merkleStep, 0, len(proof))
		for _, step := range proof {
			side := "R"
			if step.Side == merkle.SiblingLeft {
				side = "L"
			}
			steps = append(steps, merkleStep{Side: side, Sibling: step.Sibling})
		}
		out = append(out, merkleVector{Leaves: leaves, Root: root, Index: index, Proof: steps})
	}
	return out
}

func main() {
	v := vectors{
		Attestation: attestationVectors(),
		Hash:        hashVectors(),
		Merkle:      merkleVectors(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
