package interfaces

// Weaver is the deterministic key engine behind the wallet API. Both
// operations are pure functions of their inputs: no state is held between
// calls and nothing is persisted by implementations.
type Weaver interface {
	// Register extracts claims from the proofs, commits each one under a
	// salt normalized from saltInput, and derives the wallet keypair from
	// the full commitment set. The returned record is safe to persist;
	// the derived key is not and must be handed to the caller only.
	Register(proofs []Proof, saltInput string, threshold int) (*WalletRecord, *DerivedKey, error)

	// Recover matches the presented proofs against the record's stored
	// commitments and, if at least Threshold of them match, re-derives
	// the exact registered keypair. A match count below the threshold is
	// a normal outcome, not an error.
	Recover(proofs []Proof, record *WalletRecord) (RecoveryOutcome, error)
}
