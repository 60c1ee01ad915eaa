// Package cidutil derives IPFS-compatible CIDs for content-addressed
// storage. The network addresses content by its BLAKE3 hash, so CIDs use
// the blake3 multihash: a CID's digest is bit-identical to
// data.ComputeContentHash of the same bytes.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"saorsa.dev/logic/model"
)

// CIDv1RawBlake3 returns a CIDv1 string using the "raw" multicodec and a
// 32-byte blake3 multihash.
func CIDv1RawBlake3(data []byte) string {
	sum, err := multihash.Sum(data, multihash.BLAKE3, model.HashSize)
	if err != nil {
		// multihash.Sum only errors for unknown codes or invalid lengths;
		// with BLAKE3 and a 32-byte digest this is unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// CIDv1RawBlake3CID returns a CIDv1 (raw + blake3) derived from data.
func CIDv1RawBlake3CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.BLAKE3, model.HashSize)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
