package identity

import (
	"fmt"
)

// Claim is the uniform result of extracting a proof: a provider tag plus a
// provider-specific stable identifier. Claims are ephemeral and must never be
// stored; only commitments derived from them are durable.
type Claim struct {
	Provider string
	StableID string
}

// Proof is an already-authenticated piece of identity evidence. The set of
// implementations is closed; consumers switch over the concrete types.
type Proof interface {
	// ProviderTag returns the provider label the proof was issued for,
	// as supplied by the caller (not normalized).
	ProviderTag() string

	isProof()
}

// OAuthIDToken is a compact three-part signed token (JWT) from an OpenID
// Connect provider. Only the payload structure is inspected; the signature is
// assumed to have been verified upstream.
type OAuthIDToken struct {
	Provider string
	Token    string
}

// OAuthAccessToken is an opaque bearer token from an OAuth provider. It
// carries no structured subject claim, so its stable identifier is a one-way
// hash of the raw token bytes.
type OAuthAccessToken struct {
	Provider string
	Token    string
}

// WebAuthnAssertion is a passkey authentication assertion in its JSON wire
// form. The embedded credential ID serves as the stable identifier.
type WebAuthnAssertion struct {
	Provider  string
	Assertion []byte
}

func (p OAuthIDToken) ProviderTag() string     { return p.Provider }
func (p OAuthAccessToken) ProviderTag() string { return p.Provider }
func (p WebAuthnAssertion) ProviderTag() string {
	return p.Provider
}

func (OAuthIDToken) isProof()      {}
func (OAuthAccessToken) isProof()  {}
func (WebAuthnAssertion) isProof() {}

// InvalidTokenError reports a structurally malformed proof. It carries the
// provider tag and a human-readable reason so callers can correct the input.
type InvalidTokenError struct {
	Provider string
	Reason   string
}

// Error returns the error message including provider context.
func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid identity token for provider %q: %s", e.Provider, e.Reason)
}
