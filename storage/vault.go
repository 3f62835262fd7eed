package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/otherview/key-weaver/interfaces"
)

// VaultStore persists wallet records in HashiCorp Vault using the KV v2
// secrets engine. Records hold no secrets, but Vault's audit trail and
// access policies make it a convenient durable store in deployments that
// already run one.
type VaultStore struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultStore creates a Vault-backed wallet store with token
// authentication.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: path within the mount (e.g. "keyweaver")
//   - token: Vault token; falls back to the VAULT_TOKEN environment
//     variable when empty
func NewVaultStore(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{Timeout: 30 * time.Second}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", address, mountPath, dataPath),
	}, nil
}

// StoreRecord writes the record under the KV v2 data path for its address.
func (s *VaultStore) StoreRecord(ctx context.Context, record *interfaces.WalletRecord) error {
	if err := interfaces.ValidateWalletAddress(record.Address); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode wallet record: %w", err)
	}

	start := time.Now()
	path := s.recordPath(record.Address)

	_, err = s.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"data": map[string]interface{}{
			"record": string(data),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store wallet record in Vault: %w", err)
	}

	s.log.Debug("Stored wallet record in Vault",
		slog.String("address", record.Address),
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// FetchRecord reads the record for an address from the KV v2 path.
func (s *VaultStore) FetchRecord(ctx context.Context, address string) (*interfaces.WalletRecord, error) {
	if err := interfaces.ValidateWalletAddress(address); err != nil {
		return nil, err
	}

	path := s.recordPath(address)
	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallet record from Vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrRecordNotFound
	}

	// KV v2 nests the payload under "data"
	inner, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, interfaces.ErrRecordNotFound
	}
	raw, ok := inner["record"].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected Vault record format at %s", path)
	}

	var record interfaces.WalletRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode wallet record: %w", err)
	}
	return &record, nil
}

// LocationURI returns the vault:// URI.
func (s *VaultStore) LocationURI() string {
	return s.locationURI
}

// Name returns the backend identifier.
func (s *VaultStore) Name() string {
	return "vault"
}

func (s *VaultStore) recordPath(address string) string {
	return fmt.Sprintf("%s/data/%s/wallets/%s", s.mountPath, s.dataPath, address)
}
