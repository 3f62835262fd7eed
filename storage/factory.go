package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/otherview/key-weaver/interfaces"
)

// StoreFactory creates wallet stores from location URIs and aggregates them
// into replicating multi-stores.
type StoreFactory struct {
	log *slog.Logger
}

// NewStoreFactory creates a factory logging through the given logger.
func NewStoreFactory(log *slog.Logger) *StoreFactory {
	return &StoreFactory{log: log}
}

// StoreFor creates a wallet store from a location URI.
//
// Supported schemes:
//   - file:// - Local filesystem storage
//   - memory:// - In-process storage for tests and development
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2
//   - ipfs:// - IPFS node via its mutable files API
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (sf *StoreFactory) StoreFor(location interfaces.StoreLocation) (interfaces.WalletStore, error) {
	u, err := url.Parse(string(location))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return sf.createFileStore(u)
	case "memory":
		return NewMemoryStore(sf.log), nil
	case "s3":
		return sf.createS3Store(u)
	case "vault":
		return sf.createVaultStore(u)
	case "ipfs":
		return sf.createIPFSStore(u)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

// CreateMultiStore creates a replicating store from a list of location URIs.
// Backends that fail to initialize are skipped with a warning; at least one
// must succeed.
func (sf *StoreFactory) CreateMultiStore(locations []interfaces.StoreLocation) (interfaces.WalletStore, error) {
	stores := make([]interfaces.WalletStore, 0, len(locations))

	for _, location := range locations {
		store, err := sf.StoreFor(location)
		if err != nil {
			sf.log.Warn("Failed to create wallet store",
				"err", err,
				slog.String("location", string(location)))
			continue
		}
		stores = append(stores, store)
	}

	if len(stores) == 0 {
		return nil, fmt.Errorf("no valid wallet stores created")
	}

	return NewMultiStore(stores, sf.log), nil
}

// createFileStore handles file:///absolute/path and file://./relative/path.
func (sf *StoreFactory) createFileStore(u *url.URL) (interfaces.WalletStore, error) {
	sf.log.Debug("Creating file store", slog.String("uri", u.String()))

	path := u.Path
	if u.Host != "" {
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI", interfaces.ErrInvalidLocationURI)
	}

	return NewFileStore(path, sf.log)
}

// createS3Store handles
// s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix/?region=us-west-2&endpoint=custom.s3.com.
func (sf *StoreFactory) createS3Store(u *url.URL) (interfaces.WalletStore, error) {
	sf.log.Debug("Creating S3 store", slog.String("uri", u.Redacted()))

	bucket := u.Host
	if bucket == "" {
		return nil, fmt.Errorf("%w: missing S3 bucket name", interfaces.ErrInvalidLocationURI)
	}

	prefix := strings.TrimPrefix(u.Path, "/")

	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := query.Get("endpoint")

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Store(bucket, prefix, region, endpoint, accessKey, secretKey, sf.log)
}

// createVaultStore handles vault://TOKEN@host:port/mount/path.
func (sf *StoreFactory) createVaultStore(u *url.URL) (interfaces.WalletStore, error) {
	sf.log.Debug("Creating Vault store", slog.String("uri", u.Redacted()))

	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing Vault host", interfaces.ErrInvalidLocationURI)
	}

	pathParts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return nil, fmt.Errorf("%w: vault URI must be vault://token@host:port/mount/path", interfaces.ErrInvalidLocationURI)
	}

	var token string
	if u.User != nil {
		token = u.User.Username()
	}

	scheme := "https"
	if u.Query().Get("insecure") == "true" {
		scheme = "http"
	}

	return NewVaultStore(fmt.Sprintf("%s://%s", scheme, u.Host), pathParts[0], pathParts[1], token, sf.log)
}

// createIPFSStore handles ipfs://host:port/.
func (sf *StoreFactory) createIPFSStore(u *url.URL) (interfaces.WalletStore, error) {
	sf.log.Debug("Creating IPFS store", slog.String("uri", u.String()))

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing IPFS host", interfaces.ErrInvalidLocationURI)
	}

	port := u.Port()
	if port == "" {
		port = "5001"
	}

	return NewIPFSStore(host, port, sf.log), nil
}
