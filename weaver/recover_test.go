package weaver

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/otherview/key-weaver/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProofs builds the google/github/passkey proof set used across
// recovery tests.
func testProofs(t *testing.T) []interfaces.Proof {
	t.Helper()

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"user-123"}`))
	idToken := fmt.Sprintf("header.%s.signature", payload)

	return []interfaces.Proof{
		interfaces.OAuthIDToken{Provider: "google", Token: idToken},
		interfaces.OAuthAccessToken{Provider: "github", Token: "gho_token_octocat"},
		interfaces.WebAuthnAssertion{Provider: "passkey", Assertion: []byte(`{"id":"credential-abc"}`)},
	}
}

// registerTestWallet runs a registration over testProofs and returns the
// stored state plus the original derived key.
func registerTestWallet(t *testing.T, threshold int) (*interfaces.WalletRecord, *interfaces.DerivedKey) {
	t.Helper()

	registrar := NewRegistrar(testLogger())
	record, key, err := registrar.Register(testProofs(t), "registration-salt", threshold)
	require.NoError(t, err)
	return record, key
}

func TestRecoverWallet_AllProofs(t *testing.T) {
	record, key := registerTestWallet(t, 2)
	salt, err := record.Salt()
	require.NoError(t, err)

	outcome, err := RecoverWallet(testProofs(t), record.Commitments, salt, record.Threshold)
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.MatchedCount)
	require.NotNil(t, outcome.Wallet)
	assert.Equal(t, key.Address, outcome.Wallet.Address, "Recovered address must equal the registered one")
	assert.Equal(t, key.PrivateKeyHex, outcome.Wallet.PrivateKeyHex)
}

func TestRecoverWallet_SubsetMeetsThreshold(t *testing.T) {
	record, key := registerTestWallet(t, 2)
	salt, err := record.Salt()
	require.NoError(t, err)

	// Any 2-of-3 subset recovers the identical key
	proofs := testProofs(t)
	subsets := [][]interfaces.Proof{
		{proofs[0], proofs[1]},
		{proofs[1], proofs[2]},
		{proofs[0], proofs[2]},
	}

	for i, subset := range subsets {
		outcome, err := RecoverWallet(subset, record.Commitments, salt, record.Threshold)
		require.NoError(t, err)
		assert.True(t, outcome.Success, "Subset %d should meet threshold", i)
		assert.Equal(t, 2, outcome.MatchedCount)
		require.NotNil(t, outcome.Wallet)
		assert.Equal(t, key.Address, outcome.Wallet.Address,
			"Subset %d must derive the same address as registration", i)
	}
}

func TestRecoverWallet_BelowThreshold(t *testing.T) {
	record, _ := registerTestWallet(t, 2)
	salt, err := record.Salt()
	require.NoError(t, err)

	outcome, err := RecoverWallet(testProofs(t)[:1], record.Commitments, salt, record.Threshold)
	require.NoError(t, err, "A threshold miss is an outcome, not an error")

	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.MatchedCount)
	assert.Nil(t, outcome.Wallet, "No key material below threshold")
}

func TestRecoverWallet_NoMatches(t *testing.T) {
	record, _ := registerTestWallet(t, 2)
	salt, err := record.Salt()
	require.NoError(t, err)

	strangers := []interfaces.Proof{
		interfaces.OAuthAccessToken{Provider: "github", Token: "gho_someone_else"},
	}

	outcome, err := RecoverWallet(strangers, record.Commitments, salt, record.Threshold)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, 0, outcome.MatchedCount)
}

func TestRecoverWallet_NoDoubleCounting(t *testing.T) {
	record, _ := registerTestWallet(t, 2)
	salt, err := record.Salt()
	require.NoError(t, err)

	// The same valid proof presented twice must match one stored slot once
	github := testProofs(t)[1]
	outcome, err := RecoverWallet([]interfaces.Proof{github, github}, record.Commitments, salt, record.Threshold)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.MatchedCount, "A replayed proof cannot inflate the match count")
	assert.False(t, outcome.Success)
}

func TestRecoverWallet_StorageOrderIrrelevant(t *testing.T) {
	record, key := registerTestWallet(t, 2)
	salt, err := record.Salt()
	require.NoError(t, err)

	reordered := []interfaces.Commitment{
		record.Commitments[2],
		record.Commitments[0],
		record.Commitments[1],
	}

	outcome, err := RecoverWallet(testProofs(t), reordered, salt, record.Threshold)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, key.Address, outcome.Wallet.Address,
		"Commitment storage order must not affect the recovered key")
}

func TestRecoverWallet_MalformedProof(t *testing.T) {
	record, _ := registerTestWallet(t, 2)
	salt, err := record.Salt()
	require.NoError(t, err)

	bad := []interfaces.Proof{
		interfaces.OAuthIDToken{Provider: "google", Token: "not-a-jwt"},
	}

	_, err = RecoverWallet(bad, record.Commitments, salt, record.Threshold)
	require.Error(t, err)

	var tokenErr *interfaces.InvalidTokenError
	assert.ErrorAs(t, err, &tokenErr)
}
