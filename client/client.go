// Package client provides a typed HTTP client for the wallet API along with
// a testify mock for consumers that want to stub it out.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/otherview/key-weaver/httpserver"
	"github.com/otherview/key-weaver/interfaces"
	"github.com/stretchr/testify/mock"
)

// WalletProvider is the client-side view of the wallet API.
type WalletProvider interface {
	Register(req httpserver.RegisterRequest) (*httpserver.RegisterResponse, error)
	Recover(address string, req httpserver.RecoverRequest) (*httpserver.RecoverResponse, error)
	GetWallet(address string) (*interfaces.WalletRecord, error)
}

// WalletClient talks to a wallet API server over HTTP.
type WalletClient struct {
	// ServerAddr is the base URL of the wallet server.
	ServerAddr string

	// HTTPClient overrides http.DefaultClient when set.
	HTTPClient *http.Client
}

func (c *WalletClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *WalletClient) postJSON(url string, body interface{}, expectStatus int, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	resp, err := c.httpClient().Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("could not reach wallet endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectStatus {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("wallet endpoint returned unexpected status %d", resp.StatusCode)
		}
		return fmt.Errorf("wallet endpoint returned error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse wallet response: %w", err)
	}
	return nil
}

// Register derives and enrolls a new wallet from the given proofs.
func (c *WalletClient) Register(req httpserver.RegisterRequest) (*httpserver.RegisterResponse, error) {
	var parsed httpserver.RegisterResponse
	url := fmt.Sprintf("%s/api/wallet/register", c.ServerAddr)
	if err := c.postJSON(url, req, http.StatusCreated, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Recover attempts to re-derive the wallet at address with a fresh proof set.
// A below-threshold match is a successful call with Success false.
func (c *WalletClient) Recover(address string, req httpserver.RecoverRequest) (*httpserver.RecoverResponse, error) {
	var parsed httpserver.RecoverResponse
	url := fmt.Sprintf("%s/api/wallet/recover/%s", c.ServerAddr, address)
	if err := c.postJSON(url, req, http.StatusOK, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// GetWallet fetches the stored public record for an address.
func (c *WalletClient) GetWallet(address string) (*interfaces.WalletRecord, error) {
	resp, err := c.httpClient().Get(fmt.Sprintf("%s/api/wallet/%s", c.ServerAddr, address))
	if err != nil {
		return nil, fmt.Errorf("could not reach wallet endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, interfaces.ErrRecordNotFound
	} else if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("wallet endpoint returned unexpected status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("wallet endpoint returned error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var record interfaces.WalletRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("could not parse wallet record: %w", err)
	}
	return &record, nil
}

// MockWalletProvider implements a mock WalletProvider for testing.
type MockWalletProvider struct {
	mock.Mock
}

func (m *MockWalletProvider) Register(req httpserver.RegisterRequest) (*httpserver.RegisterResponse, error) {
	args := m.Called(req)
	return args.Get(0).(*httpserver.RegisterResponse), args.Error(1)
}

func (m *MockWalletProvider) Recover(address string, req httpserver.RecoverRequest) (*httpserver.RecoverResponse, error) {
	args := m.Called(address, req)
	return args.Get(0).(*httpserver.RecoverResponse), args.Error(1)
}

func (m *MockWalletProvider) GetWallet(address string) (*interfaces.WalletRecord, error) {
	args := m.Called(address)
	return args.Get(0).(*interfaces.WalletRecord), args.Error(1)
}
