package identity

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// ExtractClaim turns a proof into its uniform claim form. Authenticity is
// assumed to have been verified upstream; only structural malformation is
// rejected, with an *InvalidTokenError carrying the provider and reason.
func ExtractClaim(proof Proof) (Claim, error) {
	switch p := proof.(type) {
	case OAuthIDToken:
		return extractIDTokenClaim(p)
	case OAuthAccessToken:
		return extractAccessTokenClaim(p)
	case WebAuthnAssertion:
		return extractWebAuthnClaim(p)
	default:
		return Claim{}, &InvalidTokenError{Provider: proof.ProviderTag(), Reason: "unsupported proof kind"}
	}
}

// extractIDTokenClaim parses the middle part of a compact JWT and takes the
// "sub" field as the stable identifier.
func extractIDTokenClaim(p OAuthIDToken) (Claim, error) {
	parts := strings.Split(p.Token, ".")
	if len(parts) != 3 {
		return Claim{}, &InvalidTokenError{Provider: p.Provider, Reason: "token must have exactly 3 parts"}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claim{}, &InvalidTokenError{Provider: p.Provider, Reason: "token payload is not valid base64url"}
	}

	var body struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return Claim{}, &InvalidTokenError{Provider: p.Provider, Reason: "token payload is not valid JSON"}
	}

	if body.Sub == "" {
		return Claim{}, &InvalidTokenError{Provider: p.Provider, Reason: "token payload has no subject"}
	}

	return Claim{Provider: p.Provider, StableID: body.Sub}, nil
}

// extractAccessTokenClaim hashes the raw token bytes. Opaque tokens carry no
// subject claim, and the token itself must never be retained.
func extractAccessTokenClaim(p OAuthAccessToken) (Claim, error) {
	if p.Token == "" {
		return Claim{}, &InvalidTokenError{Provider: p.Provider, Reason: "empty access token"}
	}

	digest := sha256.Sum256([]byte(p.Token))
	return Claim{Provider: p.Provider, StableID: hex.EncodeToString(digest[:])}, nil
}

// extractWebAuthnClaim takes the credential ID out of the assertion JSON.
func extractWebAuthnClaim(p WebAuthnAssertion) (Claim, error) {
	var assertion struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(p.Assertion, &assertion); err != nil {
		return Claim{}, &InvalidTokenError{Provider: p.Provider, Reason: "assertion is not valid JSON"}
	}

	if assertion.ID == "" {
		return Claim{}, &InvalidTokenError{Provider: p.Provider, Reason: "assertion has no credential ID"}
	}

	return Claim{Provider: p.Provider, StableID: assertion.ID}, nil
}
