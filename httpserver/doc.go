// Package httpserver exposes the wallet registration and recovery API.
//
// # Endpoints
//
//	POST /api/wallet/register          - register a wallet from identity proofs
//	POST /api/wallet/recover/{address} - recover a wallet's key from proofs
//	GET  /api/wallet/{address}         - fetch the stored, non-secret record
//	GET  /livez, /readyz               - health checks
//	GET  /drain, /undrain              - load-balancer draining
//
// Registration derives the wallet key, persists the non-secret record and
// returns the key to the caller exactly once. Recovery matches the presented
// proofs against the stored commitments and re-derives the identical key
// when the record's threshold is met; a miss is a normal 200 response with
// success set to false, not an error.
//
// Callers that do not want key material in plaintext responses include a
// PEM-encoded P-256 public key in the request; the private key then comes
// back as an ECIES-encrypted blob instead.
package httpserver
