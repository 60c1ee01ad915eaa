package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable storage interface.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written: CIDv1, raw codec, blake3
//   multihash (cidutil), so the CID digest is the content hash.
// - Get MUST return ErrNotFound when the CID is absent, and MUST verify
//   the returned bytes against the requested CID.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
