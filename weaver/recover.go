package weaver

import (
	"github.com/otherview/key-weaver/identity"
	"github.com/otherview/key-weaver/interfaces"
)

// RecoverWallet matches the presented proofs against the stored commitments
// and, once at least threshold of them match, re-derives the registered
// keypair from the entire stored commitment set.
//
// Matching is one-to-one: each stored commitment can satisfy at most one
// presented claim, so replaying one valid proof in multiple guises cannot
// inflate the match count. A match count below the threshold is a normal
// outcome with Success false and no key material computed.
func RecoverWallet(proofs []interfaces.Proof, stored []interfaces.Commitment, salt interfaces.Salt, threshold int) (interfaces.RecoveryOutcome, error) {
	claims := make([]interfaces.Claim, 0, len(proofs))
	for _, proof := range proofs {
		claim, err := identity.ExtractClaim(proof)
		if err != nil {
			return interfaces.RecoveryOutcome{}, err
		}
		claims = append(claims, claim)
	}

	consumed := make([]bool, len(stored))
	matched := 0
	for _, claim := range claims {
		for i, commitment := range stored {
			if consumed[i] {
				continue
			}
			if ValidateCommitment(claim, salt, commitment.CommitmentHex) {
				consumed[i] = true
				matched++
				break
			}
		}
	}

	if matched < threshold {
		return interfaces.RecoveryOutcome{MatchedCount: matched, Success: false}, nil
	}

	// Derive over the full stored set, not the matched subset, so the
	// recovered key is identical no matter which valid subset was shown.
	key, err := DeriveKey(stored, threshold, salt)
	if err != nil {
		return interfaces.RecoveryOutcome{}, err
	}

	recomputed, err := AddressForPrivateKey(key.PrivateKeyHex)
	if err != nil {
		return interfaces.RecoveryOutcome{}, err
	}
	if recomputed != key.Address {
		return interfaces.RecoveryOutcome{}, &interfaces.KeyDerivationError{Expected: key.Address, Actual: recomputed}
	}

	return interfaces.RecoveryOutcome{MatchedCount: matched, Success: true, Wallet: key}, nil
}
