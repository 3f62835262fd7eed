package weaver

import (
	"strings"
	"testing"

	"github.com/otherview/key-weaver/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSalt(t *testing.T) interfaces.Salt {
	t.Helper()
	return interfaces.NormalizeSalt("test-salt")
}

func TestComputeCommitment(t *testing.T) {
	salt := testSalt(t)
	claim := interfaces.Claim{Provider: "google", StableID: "user-123"}

	commitment := ComputeCommitment(claim, salt)
	assert.Equal(t, "google", commitment.Provider)
	assert.Len(t, commitment.CommitmentHex, 64, "Commitment should be a 32-byte hash in hex")
	assert.Equal(t, strings.ToLower(commitment.CommitmentHex), commitment.CommitmentHex)

	// Deterministic
	again := ComputeCommitment(claim, salt)
	assert.Equal(t, commitment.CommitmentHex, again.CommitmentHex)

	// The stable ID never appears in the commitment
	assert.NotContains(t, commitment.CommitmentHex, "user-123")
}

func TestComputeCommitment_ProviderNormalization(t *testing.T) {
	salt := testSalt(t)

	a := ComputeCommitment(interfaces.Claim{Provider: "Google", StableID: "user-123"}, salt)
	b := ComputeCommitment(interfaces.Claim{Provider: "  google  ", StableID: "user-123"}, salt)
	assert.Equal(t, a.CommitmentHex, b.CommitmentHex, "Provider tag differences in case and spacing should not change the commitment")
}

func TestComputeCommitment_DistinctInputsDiffer(t *testing.T) {
	salt := testSalt(t)
	base := ComputeCommitment(interfaces.Claim{Provider: "google", StableID: "user-123"}, salt)

	differentID := ComputeCommitment(interfaces.Claim{Provider: "google", StableID: "user-124"}, salt)
	assert.NotEqual(t, base.CommitmentHex, differentID.CommitmentHex)

	differentProvider := ComputeCommitment(interfaces.Claim{Provider: "github", StableID: "user-123"}, salt)
	assert.NotEqual(t, base.CommitmentHex, differentProvider.CommitmentHex)

	differentSalt := ComputeCommitment(interfaces.Claim{Provider: "google", StableID: "user-123"}, interfaces.NormalizeSalt("other-salt"))
	assert.NotEqual(t, base.CommitmentHex, differentSalt.CommitmentHex)
}

func TestComputeCommitment_FieldBoundaries(t *testing.T) {
	salt := testSalt(t)

	// Shifting bytes across the provider/stableID boundary must change the hash
	a := ComputeCommitment(interfaces.Claim{Provider: "ab", StableID: "cd"}, salt)
	b := ComputeCommitment(interfaces.Claim{Provider: "abc", StableID: "d"}, salt)
	assert.NotEqual(t, a.CommitmentHex, b.CommitmentHex)
}

func TestValidateCommitment_RoundTrip(t *testing.T) {
	salt := testSalt(t)
	claims := []interfaces.Claim{
		{Provider: "google", StableID: "user-123"},
		{Provider: "github", StableID: "octocat"},
		{Provider: "passkey", StableID: "credential-abc"},
	}

	for _, claim := range claims {
		commitment := ComputeCommitment(claim, salt)
		assert.True(t, ValidateCommitment(claim, salt, commitment.CommitmentHex),
			"validate(claim, salt, compute(claim, salt)) must hold for %s", claim.Provider)
	}
}

func TestValidateCommitment_Rejections(t *testing.T) {
	salt := testSalt(t)
	claim := interfaces.Claim{Provider: "google", StableID: "user-123"}
	commitment := ComputeCommitment(claim, salt)

	wrongClaim := interfaces.Claim{Provider: "google", StableID: "user-999"}
	assert.False(t, ValidateCommitment(wrongClaim, salt, commitment.CommitmentHex))

	wrongSalt := interfaces.NormalizeSalt("different")
	assert.False(t, ValidateCommitment(claim, wrongSalt, commitment.CommitmentHex))

	assert.False(t, ValidateCommitment(claim, salt, strings.Repeat("0", 64)))
	assert.False(t, ValidateCommitment(claim, salt, "short"))
}

func TestValidateCommitment_CaseInsensitiveHex(t *testing.T) {
	salt := testSalt(t)
	claim := interfaces.Claim{Provider: "google", StableID: "user-123"}
	commitment := ComputeCommitment(claim, salt)

	require.True(t, ValidateCommitment(claim, salt, strings.ToUpper(commitment.CommitmentHex)),
		"Stored hex in uppercase should still validate")
}

func TestNormalizeProvider(t *testing.T) {
	assert.Equal(t, "google", NormalizeProvider(" Google "))
	assert.Equal(t, "github", NormalizeProvider("GITHUB"))
	assert.Equal(t, "", NormalizeProvider("   "))
}
