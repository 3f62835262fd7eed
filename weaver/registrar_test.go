package weaver

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/otherview/key-weaver/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistrar_Register(t *testing.T) {
	registrar := NewRegistrar(testLogger())

	record, key, err := registrar.Register(testProofs(t), "my-salt", 2)
	require.NoError(t, err)

	assert.Equal(t, key.Address, record.Address)
	assert.Equal(t, 2, record.Threshold)
	assert.Len(t, record.Commitments, 3)
	assert.Equal(t, interfaces.NormalizeSalt("my-salt").Hex(), record.SaltHex)
	assert.False(t, record.CreatedAt.IsZero())
	require.NoError(t, interfaces.ValidateWalletAddress(record.Address))

	// Nothing secret in the record: no stable IDs, no key material
	for _, c := range record.Commitments {
		assert.NotContains(t, c.CommitmentHex, "user-123")
	}
	assert.NotContains(t, record.SaltHex, key.PrivateKeyHex)
}

func TestRegistrar_Register_Deterministic(t *testing.T) {
	registrar := NewRegistrar(testLogger())

	_, key1, err := registrar.Register(testProofs(t), "my-salt", 2)
	require.NoError(t, err)
	_, key2, err := registrar.Register(testProofs(t), "my-salt", 2)
	require.NoError(t, err)

	assert.Equal(t, key1.PrivateKeyHex, key2.PrivateKeyHex)
	assert.Equal(t, key1.Address, key2.Address)
}

func TestRegistrar_Register_InvalidInput(t *testing.T) {
	registrar := NewRegistrar(testLogger())

	_, _, err := registrar.Register(nil, "my-salt", 1)
	assert.Error(t, err, "Should fail with no proofs")

	_, _, err = registrar.Register(testProofs(t), "my-salt", 0)
	var threshErr *interfaces.InvalidThresholdError
	require.ErrorAs(t, err, &threshErr)

	_, _, err = registrar.Register(testProofs(t), "my-salt", 4)
	require.ErrorAs(t, err, &threshErr)
	assert.Equal(t, 4, threshErr.Threshold)
	assert.Equal(t, 3, threshErr.Commitments)

	_, _, err = registrar.Register([]interfaces.Proof{
		interfaces.OAuthIDToken{Provider: "google", Token: "garbage"},
	}, "my-salt", 1)
	assert.Error(t, err, "Should surface extraction failures")
}

func TestRegistrar_RegisterThenRecover(t *testing.T) {
	registrar := NewRegistrar(testLogger())

	record, key, err := registrar.Register(testProofs(t), "registration-salt", 2)
	require.NoError(t, err)

	// Full proof set
	outcome, err := registrar.Recover(testProofs(t), record)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.MatchedCount)
	assert.Equal(t, key.Address, outcome.Wallet.Address)

	// Two of three
	outcome, err = registrar.Recover(testProofs(t)[1:], record)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 2, outcome.MatchedCount)
	assert.Equal(t, key.Address, outcome.Wallet.Address)

	// One of three: below threshold
	outcome, err = registrar.Recover(testProofs(t)[2:], record)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.MatchedCount)
	assert.Nil(t, outcome.Wallet)
}

func TestRegistrar_Recover_BadRecordSalt(t *testing.T) {
	registrar := NewRegistrar(testLogger())
	record, _, err := registrar.Register(testProofs(t), "registration-salt", 2)
	require.NoError(t, err)

	record.SaltHex = "corrupted"
	_, err = registrar.Recover(testProofs(t), record)
	assert.Error(t, err)
}

func TestMnemonicForKey(t *testing.T) {
	registrar := NewRegistrar(testLogger())
	_, key, err := registrar.Register(testProofs(t), "registration-salt", 2)
	require.NoError(t, err)

	mnemonic, err := MnemonicForKey(key)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic), 24, "32 bytes of entropy encode as 24 words")

	again, err := MnemonicForKey(key)
	require.NoError(t, err)
	assert.Equal(t, mnemonic, again)

	_, err = MnemonicForKey(&interfaces.DerivedKey{PrivateKeyHex: "zz"})
	assert.Error(t, err)
}

func TestSaltFromPassphrase(t *testing.T) {
	salt := SaltFromPassphrase("correct horse battery staple", "keyweaver")

	assert.True(t, interfaces.IsValidSaltHex(salt.Hex()))
	assert.Equal(t, salt, SaltFromPassphrase("correct horse battery staple", "keyweaver"))
	assert.NotEqual(t, salt, SaltFromPassphrase("correct horse battery staple", "other-pepper"))
	assert.NotEqual(t, salt, SaltFromPassphrase("other passphrase", "keyweaver"))

	// NormalizeSalt over the canonical form is a no-op
	assert.Equal(t, salt, interfaces.NormalizeSalt(salt.Hex()))
}
