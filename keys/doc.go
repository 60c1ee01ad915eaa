// Package keys provides caller-side key utilities for the verification
// core: ML-DSA-65 keypairs, node-key string encoding, deterministic epoch
// seed derivation, and a local filesystem keystore.
//
// The pure core (attestation, data, merkle) never generates keys or signs;
// those responsibilities live with callers, and this package is that caller
// layer for the CLI and local tooling.
//
// Stable (SemVer-protected):
//   - Pure, deterministic primitives: node-key formatting/parsing, seed
//     derivation, signing and verification over binary digests.
//
// Experimental:
//   - Filesystem-backed key storage (KeyStore and related functions). These
//     are local-first utilities and not part of the long-term protocol
//     contract.
package keys
