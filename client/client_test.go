package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/otherview/key-weaver/httpserver"
	"github.com/otherview/key-weaver/interfaces"
	"github.com/otherview/key-weaver/storage"
	"github.com/otherview/key-weaver/weaver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIDToken(subject string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":%q}`, subject)))
	return header + "." + payload + ".sig"
}

func newTestClient(t *testing.T) *WalletClient {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := httpserver.NewHandler(weaver.NewRegistrar(logger), storage.NewMemoryStore(logger), logger)

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      logger,
		DrainDuration:            time.Millisecond,
		GracefulShutdownDuration: time.Second,
	}, handler)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &WalletClient{ServerAddr: ts.URL}
}

func TestWalletClientRoundTrip(t *testing.T) {
	c := newTestClient(t)

	proofs := []httpserver.ProofPayload{
		{Kind: "oauth_id_token", Provider: "google", Token: testIDToken("alice")},
		{Kind: "oauth_access_token", Provider: "github", Token: "gho_alice"},
		{Kind: "webauthn", Provider: "passkey", Assertion: json.RawMessage(`{"id":"cred-alice"}`)},
	}

	registered, err := c.Register(httpserver.RegisterRequest{Proofs: proofs, Salt: "alice-salt", Threshold: 2})
	require.NoError(t, err)
	require.NotNil(t, registered.Wallet)

	record, err := c.GetWallet(registered.Record.Address)
	require.NoError(t, err)
	assert.Equal(t, registered.Record.Address, record.Address)
	assert.Len(t, record.Commitments, 3)

	recovered, err := c.Recover(registered.Record.Address, httpserver.RecoverRequest{Proofs: proofs[1:]})
	require.NoError(t, err)
	assert.True(t, recovered.Success)
	assert.Equal(t, registered.Wallet.PrivateKeyHex, recovered.Wallet.PrivateKeyHex)
}

func TestWalletClientErrors(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetWallet("0x0123456789abcdef0123456789abcdef01234567")
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)

	_, err = c.Register(httpserver.RegisterRequest{Salt: "s", Threshold: 1})
	assert.Error(t, err, "Registering with no proofs should fail")
}
