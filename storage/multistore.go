package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otherview/key-weaver/interfaces"
)

// MultiStore replicates wallet records across several backends. Writes go to
// every backend and succeed if at least one does; reads return the first
// hit. A wallet registered while a replica was down therefore remains
// recoverable from the rest.
type MultiStore struct {
	stores []interfaces.WalletStore
	log    *slog.Logger
}

// NewMultiStore creates a replicating store over the given backends.
func NewMultiStore(stores []interfaces.WalletStore, log *slog.Logger) *MultiStore {
	return &MultiStore{stores: stores, log: log}
}

// StoreRecord stores the record to every backend. Partial failures are
// logged; the call fails only when no backend accepted the record.
func (m *MultiStore) StoreRecord(ctx context.Context, record *interfaces.WalletRecord) error {
	var firstErr error
	stored := 0

	for _, store := range m.stores {
		if err := store.StoreRecord(ctx, record); err != nil {
			m.log.Warn("Failed to store wallet record in backend",
				"err", err,
				slog.String("backend", store.Name()),
				slog.String("address", record.Address))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stored++
	}

	if stored == 0 {
		return fmt.Errorf("all %d backends failed to store record: %w", len(m.stores), firstErr)
	}

	if stored < len(m.stores) {
		m.log.Warn("Wallet record stored to a subset of backends",
			slog.Int("stored", stored),
			slog.Int("total", len(m.stores)))
	}
	return nil
}

// FetchRecord returns the record from the first backend that has it.
// Returns ErrRecordNotFound only when no backend has the record.
func (m *MultiStore) FetchRecord(ctx context.Context, address string) (*interfaces.WalletRecord, error) {
	var firstErr error

	for _, store := range m.stores {
		record, err := store.FetchRecord(ctx, address)
		if err == nil {
			return record, nil
		}
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			continue
		}
		m.log.Warn("Backend fetch failed",
			"err", err,
			slog.String("backend", store.Name()),
			slog.String("address", address))
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return nil, interfaces.ErrRecordNotFound
}

// LocationURI returns the joined URIs of all backends.
func (m *MultiStore) LocationURI() string {
	uris := make([]string, len(m.stores))
	for i, store := range m.stores {
		uris[i] = store.LocationURI()
	}
	return strings.Join(uris, ",")
}

// Name returns the backend identifier.
func (m *MultiStore) Name() string {
	return "multi"
}
