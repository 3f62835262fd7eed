// Package identity defines the supported identity proof kinds and the
// extraction of stable identity claims from them.
//
// A proof is an already-authenticated piece of evidence that a user controls
// an external identity: an OAuth ID token, an opaque OAuth access token, or a
// WebAuthn assertion. Signature and authenticity verification happens upstream
// before a proof reaches this package; extraction here only fails on
// structural malformation.
//
// Each proof kind maps to a Claim, a uniform {provider, stable identifier}
// pair:
//
//   - OAuthIDToken: the JWT payload is base64url-decoded and the "sub" field
//     becomes the stable identifier. The signature is never checked here.
//   - OAuthAccessToken: opaque bearer tokens carry no structured subject, so
//     the stable identifier is the SHA-256 hash of the raw token bytes. The
//     token itself is never retained.
//   - WebAuthnAssertion: the credential ID embedded in the assertion JSON
//     becomes the stable identifier.
//
// The proof set is a closed union: adding a provider kind means adding a
// variant here together with its extraction rule.
//
// Claims are ephemeral. They are derived fresh from a proof on every call and
// must never be persisted; durable storage holds only one-way commitments
// computed from claims elsewhere.
package identity
