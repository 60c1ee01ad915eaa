package keys

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// DeriveEpochSeed deterministically derives an epoch-specific seed from a
// root seed. Nodes rotate their entangled-ID nonce (and optionally their
// keypair) per epoch; deriving the per-epoch material from a single root
// seed keeps rotation reproducible across restarts.
func DeriveEpochSeed(rootSeed []byte, epoch uint64) ([]byte, error) {
	if len(rootSeed) != SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", SeedSize)
	}

	var epochBytes [8]byte
	binary.LittleEndian.PutUint64(epochBytes[:], epoch)

	h := sha3.New256()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("saorsa-logic-kms-lite-v1"))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("epoch:"))
	_, _ = h.Write(epochBytes[:])
	sum := h.Sum(nil)
	if len(sum) < SeedSize {
		return nil, errors.New("kdf output too short")
	}
	out := make([]byte, SeedSize)
	copy(out, sum[:SeedSize])
	return out, nil
}
