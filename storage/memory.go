package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/otherview/key-weaver/interfaces"
)

// MemoryStore keeps wallet records in process memory. Intended for tests and
// local development; records do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	log     *slog.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *slog.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
		log:     log,
	}
}

// StoreRecord keeps a deep copy of the record, so later mutation by the
// caller cannot change what was stored.
func (s *MemoryStore) StoreRecord(ctx context.Context, record *interfaces.WalletRecord) error {
	if err := interfaces.ValidateWalletAddress(record.Address); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode wallet record: %w", err)
	}

	s.mu.Lock()
	s.records[record.Address] = data
	s.mu.Unlock()
	return nil
}

// FetchRecord returns the record for an address, or ErrRecordNotFound.
func (s *MemoryStore) FetchRecord(ctx context.Context, address string) (*interfaces.WalletRecord, error) {
	if err := interfaces.ValidateWalletAddress(address); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.records[address]
	s.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrRecordNotFound
	}

	var record interfaces.WalletRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode wallet record: %w", err)
	}
	return &record, nil
}

// LocationURI returns the memory:// URI.
func (s *MemoryStore) LocationURI() string {
	return "memory://"
}

// Name returns the backend identifier.
func (s *MemoryStore) Name() string {
	return "memory"
}
