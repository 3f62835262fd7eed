package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/otherview/key-weaver/interfaces"
)

// IPFSStore persists wallet records on an IPFS node. Records are written
// through the node's mutable files API so that a fixed per-address path
// stays valid as content changes, without an external index.
type IPFSStore struct {
	shell       *shell.Shell
	host        string
	port        string
	log         *slog.Logger
	locationURI string
}

// NewIPFSStore creates an IPFS-backed wallet store connected to the node's
// API at host:port.
func NewIPFSStore(host, port string, log *slog.Logger) *IPFSStore {
	apiURL := fmt.Sprintf("%s:%s", host, port)

	return &IPFSStore{
		shell:       shell.NewShell(apiURL),
		host:        host,
		port:        port,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s/", apiURL),
	}
}

// StoreRecord writes the record to the node's files API under the
// per-address path.
func (s *IPFSStore) StoreRecord(ctx context.Context, record *interfaces.WalletRecord) error {
	if err := interfaces.ValidateWalletAddress(record.Address); err != nil {
		return err
	}

	if !s.shell.IsUp() {
		return interfaces.ErrStoreUnavailable
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode wallet record: %w", err)
	}

	start := time.Now()
	path := s.recordPath(record.Address)

	err = s.shell.FilesWrite(ctx, path, bytes.NewReader(data),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true))
	if err != nil {
		return fmt.Errorf("failed to store wallet record in IPFS: %w", err)
	}

	s.log.Debug("Stored wallet record in IPFS",
		slog.String("address", record.Address),
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// FetchRecord reads the record for an address from the node's files API.
func (s *IPFSStore) FetchRecord(ctx context.Context, address string) (*interfaces.WalletRecord, error) {
	if err := interfaces.ValidateWalletAddress(address); err != nil {
		return nil, err
	}

	if !s.shell.IsUp() {
		s.log.Warn("IPFS node unavailable",
			slog.String("host", s.host),
			slog.String("port", s.port))
		return nil, interfaces.ErrStoreUnavailable
	}

	reader, err := s.shell.FilesRead(ctx, s.recordPath(address))
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return nil, interfaces.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch wallet record from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read IPFS response: %w", err)
	}

	var record interfaces.WalletRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode wallet record: %w", err)
	}
	return &record, nil
}

// LocationURI returns the ipfs:// URI.
func (s *IPFSStore) LocationURI() string {
	return s.locationURI
}

// Name returns the backend identifier.
func (s *IPFSStore) Name() string {
	return "ipfs"
}

func (s *IPFSStore) recordPath(address string) string {
	return "/keyweaver/wallets/" + address + ".json"
}
