package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/otherview/key-weaver/interfaces"
)

// FileStore persists wallet records as JSON files on the local filesystem,
// one file per wallet address.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a file store rooted at baseDir, creating the wallet
// directory if it does not exist.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	walletDir := filepath.Join(baseDir, "wallets")
	if err := os.MkdirAll(walletDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create wallet directory: %w", err)
	}

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// StoreRecord writes the record to its per-address file. The write goes
// through a temporary file and rename so a crash cannot leave a torn record.
func (s *FileStore) StoreRecord(ctx context.Context, record *interfaces.WalletRecord) error {
	if err := interfaces.ValidateWalletAddress(record.Address); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode wallet record: %w", err)
	}

	path := s.recordPath(record.Address)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write wallet record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize wallet record: %w", err)
	}

	s.log.Debug("Stored wallet record",
		slog.String("address", record.Address),
		slog.String("path", path))
	return nil
}

// FetchRecord reads the record for an address. Returns ErrRecordNotFound if
// the file does not exist.
func (s *FileStore) FetchRecord(ctx context.Context, address string) (*interfaces.WalletRecord, error) {
	if err := interfaces.ValidateWalletAddress(address); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.recordPath(address))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read wallet record: %w", err)
	}

	var record interfaces.WalletRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode wallet record: %w", err)
	}

	return &record, nil
}

// LocationURI returns the file:// URI the store was created from.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}

// Name returns the backend identifier.
func (s *FileStore) Name() string {
	return "file"
}

func (s *FileStore) recordPath(address string) string {
	// Address format is validated before use, but strip path separators
	// anyway so a record key can never escape the wallet directory.
	safe := strings.ReplaceAll(address, string(os.PathSeparator), "")
	return filepath.Join(s.baseDir, "wallets", safe+".json")
}
