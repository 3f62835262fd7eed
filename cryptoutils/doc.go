// Package cryptoutils provides the asymmetric envelope used to deliver
// derived private keys to callers without sending them in plaintext.
//
// A caller that wants its recovery or registration response protected
// submits a PEM-encoded P-256 public key; the server encrypts the derived
// private key to it with ECIES (ephemeral ECDH, SHA-256 key derivation,
// AES-GCM authenticated encryption) and the caller decrypts locally with the
// matching private key. A fresh ephemeral key is generated per encryption,
// so captured responses cannot be decrypted later even if another response
// key leaks.
package cryptoutils
