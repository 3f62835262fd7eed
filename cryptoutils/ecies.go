package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
)

const gcmNonceSize = 12

// GenerateResponseKeypair creates a fresh P-256 keypair for protecting API
// responses, returned as (publicKeyPEM, privateKeyPEM).
func GenerateResponseKeypair() ([]byte, []byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate response key: %w", err)
	}

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	privBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privBytes})
	return pubPEM, privPEM, nil
}

// EncryptForRecipient encrypts data to a PEM-encoded ECDSA public key using
// ECIES: ephemeral ECDH for key agreement, SHA-256 over the shared point for
// the symmetric key, AES-GCM for authenticated encryption.
//
// Output format: [ephemeral key length (2 bytes)][ephemeral key][nonce][ciphertext].
func EncryptForRecipient(publicKeyPEM []byte, data []byte) ([]byte, error) {
	block, _ := pem.Decode(publicKeyPEM)
	if block == nil {
		return nil, errors.New("failed to decode public key PEM")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	publicKey, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("not an ECDSA public key")
	}

	ephemeralKey, err := ecdsa.GenerateKey(publicKey.Curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	x, _ := publicKey.Curve.ScalarMult(publicKey.X, publicKey.Y, ephemeralKey.D.Bytes())
	sharedSecret := sha256.Sum256(x.Bytes())

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesBlock, err := aes.NewCipher(sharedSecret[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(aesBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	ciphertext := aesGCM.Seal(nil, nonce, data, nil)

	ephemeralPub := elliptic.Marshal(ephemeralKey.Curve, ephemeralKey.X, ephemeralKey.Y)

	result := make([]byte, 2+len(ephemeralPub)+len(nonce)+len(ciphertext))
	binary.BigEndian.PutUint16(result[0:2], uint16(len(ephemeralPub)))
	copy(result[2:], ephemeralPub)
	copy(result[2+len(ephemeralPub):], nonce)
	copy(result[2+len(ephemeralPub)+len(nonce):], ciphertext)
	return result, nil
}

// DecryptWithKey decrypts data produced by EncryptForRecipient using the
// recipient's PEM-encoded EC private key.
func DecryptWithKey(privateKeyPEM []byte, encrypted []byte) ([]byte, error) {
	block, _ := pem.Decode(privateKeyPEM)
	if block == nil {
		return nil, errors.New("failed to decode private key PEM")
	}

	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	if len(encrypted) < 2 {
		return nil, errors.New("encrypted data too short")
	}

	ephemeralLen := int(binary.BigEndian.Uint16(encrypted[0:2]))
	if len(encrypted) < 2+ephemeralLen+gcmNonceSize {
		return nil, errors.New("encrypted data has invalid format")
	}

	ephemeralBytes := encrypted[2 : 2+ephemeralLen]
	x, y := elliptic.Unmarshal(privateKey.Curve, ephemeralBytes)
	if x == nil {
		return nil, errors.New("failed to unmarshal ephemeral public key")
	}

	sharedX, _ := privateKey.Curve.ScalarMult(x, y, privateKey.D.Bytes())
	sharedSecret := sha256.Sum256(sharedX.Bytes())

	nonce := encrypted[2+ephemeralLen : 2+ephemeralLen+gcmNonceSize]
	ciphertext := encrypted[2+ephemeralLen+gcmNonceSize:]

	aesBlock, err := aes.NewCipher(sharedSecret[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(aesBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
