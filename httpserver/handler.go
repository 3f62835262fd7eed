package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/otherview/key-weaver/cryptoutils"
	"github.com/otherview/key-weaver/interfaces"
	"github.com/otherview/key-weaver/metrics"
	"github.com/otherview/key-weaver/weaver"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// ProofPayload is the wire form of an identity proof.
type ProofPayload struct {
	// Kind selects the proof variant: "oauth_id_token",
	// "oauth_access_token" or "webauthn".
	Kind     string `json:"kind"`
	Provider string `json:"provider"`

	// Token carries the OAuth token for the oauth_* kinds.
	Token string `json:"token,omitempty"`

	// Assertion carries the WebAuthn assertion JSON for kind "webauthn".
	Assertion json.RawMessage `json:"assertion,omitempty"`
}

// ToProof converts the wire form into the typed proof union.
func (p ProofPayload) ToProof() (interfaces.Proof, error) {
	switch p.Kind {
	case "oauth_id_token":
		return interfaces.OAuthIDToken{Provider: p.Provider, Token: p.Token}, nil
	case "oauth_access_token":
		return interfaces.OAuthAccessToken{Provider: p.Provider, Token: p.Token}, nil
	case "webauthn":
		return interfaces.WebAuthnAssertion{Provider: p.Provider, Assertion: p.Assertion}, nil
	default:
		return nil, fmt.Errorf("unsupported proof kind %q", p.Kind)
	}
}

// RegisterRequest is the body of POST /api/wallet/register.
type RegisterRequest struct {
	Proofs    []ProofPayload `json:"proofs"`
	Salt      string         `json:"salt"`
	Threshold int            `json:"threshold"`

	// ResponsePubkey is an optional PEM-encoded P-256 public key. When
	// set, the derived private key is returned ECIES-encrypted instead
	// of in plaintext.
	ResponsePubkey string `json:"response_pubkey,omitempty"`
}

// RegisterResponse is returned with status 201 on successful registration.
type RegisterResponse struct {
	Record       *interfaces.WalletRecord `json:"record"`
	Wallet       *interfaces.DerivedKey   `json:"wallet,omitempty"`
	Mnemonic     string                   `json:"mnemonic,omitempty"`
	EncryptedKey string                   `json:"encrypted_key,omitempty"`
}

// RecoverRequest is the body of POST /api/wallet/recover/{address}.
type RecoverRequest struct {
	Proofs         []ProofPayload `json:"proofs"`
	ResponsePubkey string         `json:"response_pubkey,omitempty"`
}

// RecoverResponse reports a recovery attempt. A match count below the
// threshold is a normal response with Success false.
type RecoverResponse struct {
	MatchedCount int                    `json:"matched_count"`
	Success      bool                   `json:"success"`
	Wallet       *interfaces.DerivedKey `json:"wallet,omitempty"`
	EncryptedKey string                 `json:"encrypted_key,omitempty"`
}

// Handler processes wallet API requests against the key engine and the
// wallet store.
type Handler struct {
	weaver  interfaces.Weaver
	store   interfaces.WalletStore
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewHandler creates a handler over the given engine and store.
func NewHandler(engine interfaces.Weaver, store interfaces.WalletStore, log *slog.Logger) *Handler {
	return &Handler{
		weaver: engine,
		store:  store,
		log:    log,
	}
}

// AttachMetrics wires the handler's instruments. Safe to skip in tests.
func (h *Handler) AttachMetrics(m *metrics.Metrics) {
	h.metrics = m
}

// HandleRegister processes wallet registration requests.
//
// URL format: POST /api/wallet/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	proofs, err := decodeProofs(req.Proofs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	record, key, err := h.weaver.Register(proofs, req.Salt, req.Threshold)
	if err != nil {
		h.countRegistration("error")
		h.writeWeaverError(w, err)
		return
	}
	h.observeDerivation(time.Since(start))

	if err := h.store.StoreRecord(r.Context(), record); err != nil {
		h.countRegistration("error")
		h.log.Error("Failed to persist wallet record", "err", err, slog.String("address", record.Address))
		http.Error(w, "failed to persist wallet record", http.StatusInternalServerError)
		return
	}

	resp := RegisterResponse{Record: record}
	if req.ResponsePubkey != "" {
		encrypted, err := cryptoutils.EncryptForRecipient([]byte(req.ResponsePubkey), []byte(key.PrivateKeyHex))
		if err != nil {
			http.Error(w, "invalid response public key: "+err.Error(), http.StatusBadRequest)
			return
		}
		resp.EncryptedKey = base64.StdEncoding.EncodeToString(encrypted)
	} else {
		resp.Wallet = key
		if mnemonic, err := weaver.MnemonicForKey(key); err == nil {
			resp.Mnemonic = mnemonic
		}
	}

	h.countRegistration("ok")
	writeJSON(w, http.StatusCreated, resp)
}

// HandleRecover processes wallet recovery requests.
//
// URL format: POST /api/wallet/recover/{address}
func (h *Handler) HandleRecover(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(chi.URLParam(r, "address"))
	if err := interfaces.ValidateWalletAddress(address); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req RecoverRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	proofs, err := decodeProofs(req.Proofs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.store.FetchRecord(r.Context(), address)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			http.Error(w, "wallet not found", http.StatusNotFound)
			return
		}
		h.log.Error("Failed to fetch wallet record", "err", err, slog.String("address", address))
		http.Error(w, "failed to fetch wallet record", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	outcome, err := h.weaver.Recover(proofs, record)
	if err != nil {
		h.countRecovery("error")
		h.writeWeaverError(w, err)
		return
	}
	h.observeDerivation(time.Since(start))

	resp := RecoverResponse{MatchedCount: outcome.MatchedCount, Success: outcome.Success}
	if outcome.Success {
		h.countRecovery("recovered")
		if req.ResponsePubkey != "" {
			encrypted, err := cryptoutils.EncryptForRecipient([]byte(req.ResponsePubkey), []byte(outcome.Wallet.PrivateKeyHex))
			if err != nil {
				http.Error(w, "invalid response public key: "+err.Error(), http.StatusBadRequest)
				return
			}
			resp.EncryptedKey = base64.StdEncoding.EncodeToString(encrypted)
			resp.Wallet = &interfaces.DerivedKey{Address: outcome.Wallet.Address}
		} else {
			resp.Wallet = outcome.Wallet
		}
	} else {
		h.countRecovery("below_threshold")
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetWallet returns the stored record for an address. Everything in a
// record is non-secret, so the endpoint needs no authentication.
//
// URL format: GET /api/wallet/{address}
func (h *Handler) HandleGetWallet(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(chi.URLParam(r, "address"))
	if err := interfaces.ValidateWalletAddress(address); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.store.FetchRecord(r.Context(), address)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			http.Error(w, "wallet not found", http.StatusNotFound)
			return
		}
		h.log.Error("Failed to fetch wallet record", "err", err, slog.String("address", address))
		http.Error(w, "failed to fetch wallet record", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// writeWeaverError maps engine errors onto HTTP statuses: structural input
// problems are 400s, internal consistency faults are 500s.
func (h *Handler) writeWeaverError(w http.ResponseWriter, err error) {
	var derivationErr *interfaces.KeyDerivationError
	if errors.As(err, &derivationErr) {
		h.log.Error("Key derivation consistency fault", "err", err)
		http.Error(w, "internal key derivation fault", http.StatusInternalServerError)
		return
	}

	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *Handler) countRegistration(outcome string) {
	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) countRecovery(outcome string) {
	if h.metrics != nil {
		h.metrics.RecoveriesTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) observeDerivation(d time.Duration) {
	if h.metrics != nil {
		h.metrics.KeyDerivationSeconds.Observe(d.Seconds())
	}
}

func decodeProofs(payloads []ProofPayload) ([]interfaces.Proof, error) {
	proofs := make([]interfaces.Proof, 0, len(payloads))
	for i, payload := range payloads {
		proof, err := payload.ToProof()
		if err != nil {
			return nil, fmt.Errorf("proof %d: %w", i, err)
		}
		proofs = append(proofs, proof)
	}
	return proofs, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
