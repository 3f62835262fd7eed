package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/otherview/key-weaver/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() *interfaces.WalletRecord {
	return &interfaces.WalletRecord{
		Address:   "0x" + strings.Repeat("ab", 20),
		SaltHex:   strings.Repeat("cd", 32),
		Threshold: 2,
		Commitments: []interfaces.Commitment{
			{Provider: "google", CommitmentHex: strings.Repeat("11", 32)},
			{Provider: "github", CommitmentHex: strings.Repeat("22", 32)},
			{Provider: "passkey", CommitmentHex: strings.Repeat("33", 32)},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore(testLogger())
	record := testRecord()

	require.NoError(t, store.StoreRecord(context.Background(), record))

	fetched, err := store.FetchRecord(context.Background(), record.Address)
	require.NoError(t, err)
	assert.Equal(t, record.Address, fetched.Address)
	assert.Equal(t, record.SaltHex, fetched.SaltHex)
	assert.Equal(t, record.Threshold, fetched.Threshold)
	assert.Equal(t, record.Commitments, fetched.Commitments)
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore(testLogger())

	_, err := store.FetchRecord(context.Background(), "0x"+strings.Repeat("00", 20))
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)
}

func TestMemoryStore_CopiesRecord(t *testing.T) {
	store := NewMemoryStore(testLogger())
	record := testRecord()
	require.NoError(t, store.StoreRecord(context.Background(), record))

	// Mutating the original must not affect the stored copy
	record.Threshold = 99

	fetched, err := store.FetchRecord(context.Background(), record.Address)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Threshold)
}

func TestMemoryStore_RejectsBadAddress(t *testing.T) {
	store := NewMemoryStore(testLogger())

	record := testRecord()
	record.Address = "not-an-address"
	assert.Error(t, store.StoreRecord(context.Background(), record))

	_, err := store.FetchRecord(context.Background(), "not-an-address")
	assert.Error(t, err)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	record := testRecord()
	require.NoError(t, store.StoreRecord(context.Background(), record))

	fetched, err := store.FetchRecord(context.Background(), record.Address)
	require.NoError(t, err)
	assert.Equal(t, record.Address, fetched.Address)
	assert.Equal(t, record.Commitments, fetched.Commitments)

	_, err = store.FetchRecord(context.Background(), "0x"+strings.Repeat("00", 20))
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)
}

func TestFileStore_Overwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	record := testRecord()
	require.NoError(t, store.StoreRecord(context.Background(), record))

	record.Threshold = 3
	require.NoError(t, store.StoreRecord(context.Background(), record))

	fetched, err := store.FetchRecord(context.Background(), record.Address)
	require.NoError(t, err)
	assert.Equal(t, 3, fetched.Threshold)
}

func TestStoreFactory_Schemes(t *testing.T) {
	factory := NewStoreFactory(testLogger())

	memStore, err := factory.StoreFor("memory://")
	require.NoError(t, err)
	assert.Equal(t, "memory", memStore.Name())

	fileStore, err := factory.StoreFor(interfaces.StoreLocation("file://" + t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "file", fileStore.Name())

	s3Store, err := factory.StoreFor("s3://key:secret@bucket/prefix?region=eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "s3", s3Store.Name())
	assert.NotContains(t, s3Store.LocationURI(), "secret", "Credentials must be masked in the URI")

	vaultStore, err := factory.StoreFor("vault://token@vault.example.com:8200/secret/keyweaver")
	require.NoError(t, err)
	assert.Equal(t, "vault", vaultStore.Name())

	ipfsStore, err := factory.StoreFor("ipfs://ipfs.example.com:5001/")
	require.NoError(t, err)
	assert.Equal(t, "ipfs", ipfsStore.Name())
}

func TestStoreFactory_Invalid(t *testing.T) {
	factory := NewStoreFactory(testLogger())

	_, err := factory.StoreFor("ftp://somewhere")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.StoreFor("vault://vault.example.com:8200/onlymount")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.StoreFor("file://")
	assert.Error(t, err)
}

func TestStoreFactory_CreateMultiStore(t *testing.T) {
	factory := NewStoreFactory(testLogger())

	// Invalid locations are skipped as long as one backend works
	store, err := factory.CreateMultiStore([]interfaces.StoreLocation{
		"memory://",
		"bogus://nowhere",
	})
	require.NoError(t, err)
	assert.Equal(t, "multi", store.Name())

	_, err = factory.CreateMultiStore([]interfaces.StoreLocation{"bogus://nowhere"})
	assert.Error(t, err, "Should fail when no backend could be created")
}
