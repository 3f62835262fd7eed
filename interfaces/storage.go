package interfaces

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// StoreLocation is a storage backend location URI, e.g.
// file:///var/lib/keyweaver, memory://, s3://bucket/prefix?region=us-west-2,
// vault://vault.example.com:8200/secret/keyweaver or
// ipfs://ipfs.example.com:5001.
type StoreLocation string

// WalletStore persists wallet records keyed by wallet address. Records are
// written once at registration and are immutable afterwards; implementations
// may reject overwrites of an existing address.
type WalletStore interface {
	// StoreRecord persists a wallet record.
	StoreRecord(ctx context.Context, record *WalletRecord) error

	// FetchRecord retrieves the record for a wallet address.
	// Returns ErrRecordNotFound if no record exists.
	FetchRecord(ctx context.Context, address string) (*WalletRecord, error)

	// LocationURI returns the location the backend was created from,
	// with credentials masked.
	LocationURI() string

	// Name returns a short backend identifier for logging.
	Name() string
}

// StoreFactory creates wallet stores from location URIs.
type StoreFactory interface {
	// StoreFor creates a single backend for the given location.
	StoreFor(location StoreLocation) (WalletStore, error)

	// CreateMultiStore aggregates several locations into one replicating
	// store: writes go to every backend, reads return the first hit.
	CreateMultiStore(locations []StoreLocation) (WalletStore, error)
}

var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// ValidateWalletAddress checks the canonical lowercase 0x-prefixed form used
// as the storage key.
func ValidateWalletAddress(address string) error {
	if !walletAddressPattern.MatchString(strings.ToLower(address)) {
		return errors.New("invalid wallet address: must be 0x followed by 40 hex characters")
	}
	if address != strings.ToLower(address) {
		return errors.New("invalid wallet address: must be lowercase")
	}
	return nil
}
