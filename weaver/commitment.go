package weaver

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/otherview/key-weaver/interfaces"
)

// commitmentDomain separates commitment hashes from every other use of the
// hash function in this scheme.
const commitmentDomain = "key-weaver:commit:v1"

// fieldSeparator delimits fields inside hash preimages so that no two
// distinct (provider, stableID, salt) triples concatenate to the same bytes.
const fieldSeparator = "|"

// NormalizeProvider maps a provider tag to the form used for hashing,
// comparison and sorting: trimmed and lowercased.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

// ComputeCommitment produces the one-way commitment for a claim under a
// salt. The provider tag is normalized before hashing; the stable identifier
// is used as-is.
func ComputeCommitment(claim interfaces.Claim, salt interfaces.Salt) interfaces.Commitment {
	h := sha256.New()
	h.Write([]byte(commitmentDomain))
	h.Write([]byte(fieldSeparator))
	h.Write([]byte(NormalizeProvider(claim.Provider)))
	h.Write([]byte(fieldSeparator))
	h.Write([]byte(claim.StableID))
	h.Write([]byte(fieldSeparator))
	h.Write([]byte(salt.Hex()))

	return interfaces.Commitment{
		Provider:      claim.Provider,
		CommitmentHex: hex.EncodeToString(h.Sum(nil)),
	}
}

// ValidateCommitment reports whether the claim, under the salt, reproduces
// the stored commitment hex. The comparison is constant-time.
func ValidateCommitment(claim interfaces.Claim, salt interfaces.Salt, commitmentHex string) bool {
	computed := ComputeCommitment(claim, salt).CommitmentHex
	stored := strings.ToLower(commitmentHex)
	if len(computed) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}
