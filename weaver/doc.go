// Package weaver implements the deterministic key derivation at the heart of
// the key-weaver system: a single secp256k1 keypair woven from a set of
// identity commitments and a salt, and re-derived bit-for-bit during
// recovery.
//
// # Commitments
//
// ComputeCommitment binds a claim's provider tag and stable identifier to a
// salt through a one-way SHA-256 hash with explicit field separators.
// ValidateCommitment recomputes and compares in constant time. Given only a
// commitment, its provider tag and the salt, the identifier is not
// recoverable; commitments are safe to store publicly.
//
// # Canonical Form
//
// CanonicalizeCommitments produces the deterministic, order-independent
// serialization of a commitment set that feeds key derivation. Provider tags
// are lowercased and trimmed, entries are sorted by (provider, commitment),
// and records are joined as "provider:hex" groups separated by "|". Any
// permutation of the same multiset canonicalizes identically.
//
// # Key Derivation
//
// DeriveKey maps (commitment multiset, salt) onto a valid non-zero secp256k1
// private scalar and its Ethereum-style address:
//
//	seed = SHA-256("key-weaver:v1" || canonical || saltHex)
//	km   = HKDF-SHA256(ikm=seed, salt=saltBytes, info="key-weaver-hkdf", L=32)
//	s    = clamp(km) into [1, curveOrder)
//	addr = Keccak-256(uncompressedPubkey[1:])[12:]
//
// The threshold gates a precondition only; it never enters any hash or KDF
// input, so the same commitment set derives the same key under any threshold.
// Derivation is total: every possible 32-byte KDF output maps to a valid
// scalar with no retry path.
//
// # Recovery
//
// RecoverWallet matches presented proofs one-to-one against stored
// commitments, counts matches, and once the threshold is met re-derives the
// key from the entire stored commitment set, so the recovered key equals the
// registered key no matter which valid subset was presented. The derived
// address is independently recomputed from the private key as a consistency
// check.
//
// All functions in this package are pure, synchronous and reentrant; no
// state is held between calls.
package weaver
