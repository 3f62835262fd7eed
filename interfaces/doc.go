// Package interfaces defines the core types and contracts of the key-weaver
// system. It provides the boundary between components without implementation
// details.
//
// # Core Types
//
// Salt is the canonical 32-byte value mixed into every commitment and key
// derivation. Arbitrary user input is mapped onto it with NormalizeSalt, which
// is total and idempotent: a string that already is 64 hex characters is kept
// (lowercased), anything else is hashed with SHA-256.
//
// Commitment binds a provider tag and a stable identity identifier to a salt
// through a one-way hash. Commitments are durable, non-secret, and safe to
// store publicly; the identifier they were computed from cannot be recovered
// from them.
//
// WalletRecord is the persisted, non-secret document describing a registered
// wallet: its address, salt, recovery threshold, and commitment set. No key
// material and no raw identity data ever appears in a record.
//
// DerivedKey is the secp256k1 private key and Ethereum-style address derived
// deterministically from a commitment set and salt. It is recomputed on
// demand and never persisted.
//
// # Storage
//
// WalletStore abstracts persistence of wallet records. Backends are created
// from location URIs (file://, memory://, s3://, vault://, ipfs://) by a
// StoreFactory, and several backends can be aggregated into a replicating
// multi-store.
//
// # Errors
//
// Structural input errors carry enough context to correct the call
// (provider names, expected versus actual counts). A failed recovery match
// is not an error: it is a normal outcome with Success set to false.
// KeyDerivationError signals an internal consistency fault and is never
// produced by bad user input.
package interfaces
