package weaver

import (
	"errors"
	"log/slog"
	"time"

	"github.com/otherview/key-weaver/identity"
	"github.com/otherview/key-weaver/interfaces"
)

// Registrar is the stateless engine behind the wallet API. It implements
// interfaces.Weaver; every call is a pure function of its arguments and safe
// to invoke concurrently.
type Registrar struct {
	log *slog.Logger
}

// NewRegistrar creates a registrar logging through the given logger.
func NewRegistrar(log *slog.Logger) *Registrar {
	return &Registrar{log: log}
}

// Register builds a wallet from identity proofs. It extracts a claim per
// proof, commits each one under the normalized salt, derives the keypair
// from the full commitment set, and returns the persistable record together
// with the derived key. The key is never stored; the record contains nothing
// secret.
func (r *Registrar) Register(proofs []interfaces.Proof, saltInput string, threshold int) (*interfaces.WalletRecord, *interfaces.DerivedKey, error) {
	if len(proofs) == 0 {
		return nil, nil, errors.New("at least one identity proof is required")
	}
	if threshold < 1 || threshold > len(proofs) {
		return nil, nil, &interfaces.InvalidThresholdError{Threshold: threshold, Commitments: len(proofs)}
	}

	salt := interfaces.NormalizeSalt(saltInput)

	commitments := make([]interfaces.Commitment, 0, len(proofs))
	for _, proof := range proofs {
		claim, err := identity.ExtractClaim(proof)
		if err != nil {
			return nil, nil, err
		}
		commitments = append(commitments, ComputeCommitment(claim, salt))
	}

	key, err := DeriveKey(commitments, threshold, salt)
	if err != nil {
		return nil, nil, err
	}

	record := &interfaces.WalletRecord{
		Address:     key.Address,
		SaltHex:     salt.Hex(),
		Threshold:   threshold,
		Commitments: commitments,
		CreatedAt:   time.Now().UTC(),
	}

	r.log.Info("Registered wallet",
		slog.String("address", record.Address),
		slog.Int("identities", len(commitments)),
		slog.Int("threshold", threshold))

	return record, key, nil
}

// Recover re-derives a wallet's keypair from presented proofs and its stored
// record.
func (r *Registrar) Recover(proofs []interfaces.Proof, record *interfaces.WalletRecord) (interfaces.RecoveryOutcome, error) {
	salt, err := record.Salt()
	if err != nil {
		return interfaces.RecoveryOutcome{}, err
	}

	outcome, err := RecoverWallet(proofs, record.Commitments, salt, record.Threshold)
	if err != nil {
		return interfaces.RecoveryOutcome{}, err
	}

	r.log.Info("Recovery attempt",
		slog.String("address", record.Address),
		slog.Int("matched", outcome.MatchedCount),
		slog.Bool("success", outcome.Success))

	return outcome, nil
}
