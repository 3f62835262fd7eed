package interfaces

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/otherview/key-weaver/identity"
)

type Proof = identity.Proof
type Claim = identity.Claim
type OAuthIDToken = identity.OAuthIDToken
type OAuthAccessToken = identity.OAuthAccessToken
type WebAuthnAssertion = identity.WebAuthnAssertion

// Salt is the canonical 32-byte value mixed into commitments and key
// derivation. Its canonical text form is 64 lowercase hex characters.
type Salt [32]byte

var saltHexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// NormalizeSalt maps arbitrary user input onto a canonical salt. Input that
// already is 64 hex characters (either case) is decoded directly; any other
// string is hashed with SHA-256. The function is total and idempotent:
// NormalizeSalt(s.Hex()) == s for every salt s.
func NormalizeSalt(input string) Salt {
	lower := strings.ToLower(input)
	if saltHexPattern.MatchString(lower) {
		raw, err := hex.DecodeString(lower)
		if err == nil {
			var salt Salt
			copy(salt[:], raw)
			return salt
		}
	}

	return Salt(sha256.Sum256([]byte(input)))
}

// NewSaltFromHex creates a salt from its canonical hex form. Unlike
// NormalizeSalt it rejects anything that is not already canonical, which is
// the right behavior when loading a stored record.
func NewSaltFromHex(s string) (Salt, error) {
	if !IsValidSaltHex(s) {
		return Salt{}, errors.New("invalid salt: must be 64 lowercase hex characters")
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return Salt{}, err
	}

	var salt Salt
	copy(salt[:], raw)
	return salt, nil
}

// IsValidSaltHex reports whether s is a canonical salt rendering.
func IsValidSaltHex(s string) bool {
	return saltHexPattern.MatchString(s)
}

// Hex returns the canonical 64-character lowercase rendering.
func (s Salt) Hex() string {
	return hex.EncodeToString(s[:])
}

// Bytes returns the raw 32-byte salt.
func (s Salt) Bytes() []byte {
	return s[:]
}

// Commitment is the durable, non-secret binding of one identity to a wallet.
// The provider tag is retained for display and bookkeeping only; the stable
// identifier the commitment was computed from is not recoverable.
type Commitment struct {
	Provider      string `json:"provider"`
	CommitmentHex string `json:"commitment"`
}

// DerivedKey is a secp256k1 keypair in its wire form: the private scalar as
// 64 lowercase hex characters and the Ethereum-style address as 0x-prefixed
// lowercase hex. Derived keys are recomputed on demand and never persisted.
type DerivedKey struct {
	PrivateKeyHex string `json:"private_key"`
	Address       string `json:"address"`
}

// RecoveryOutcome reports a recovery attempt. Success is true iff the number
// of matched identities reached the record's threshold; Wallet is populated
// only on success.
type RecoveryOutcome struct {
	MatchedCount int         `json:"matched_count"`
	Success      bool        `json:"success"`
	Wallet       *DerivedKey `json:"wallet,omitempty"`
}

// WalletRecord is the persisted registration state for one wallet. Everything
// in it is non-secret: commitments are one-way, the salt alone derives
// nothing, and the threshold is pure access policy.
type WalletRecord struct {
	Address     string       `json:"address"`
	SaltHex     string       `json:"salt"`
	Threshold   int          `json:"threshold"`
	Commitments []Commitment `json:"commitments"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Salt decodes the record's stored salt.
func (r *WalletRecord) Salt() (Salt, error) {
	return NewSaltFromHex(r.SaltHex)
}
