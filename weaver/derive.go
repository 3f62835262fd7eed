package weaver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/otherview/key-weaver/interfaces"
	"golang.org/x/crypto/hkdf"
)

// Domain separators fixed by the scheme. Changing either breaks
// interoperability with previously derived wallets.
const (
	seedDomain = "key-weaver:v1"
	hkdfInfo   = "key-weaver-hkdf"
)

// DeriveKey derives the wallet keypair from a commitment set and salt.
// The threshold gates the precondition only: it never enters the seed, the
// KDF, or any other key material, so the same commitment multiset under the
// same salt always derives the byte-identical key regardless of threshold
// and input order.
func DeriveKey(commitments []interfaces.Commitment, threshold int, salt interfaces.Salt) (*interfaces.DerivedKey, error) {
	if len(commitments) < threshold {
		return nil, &interfaces.InsufficientCommitmentsError{Have: len(commitments), Need: threshold}
	}

	canonical := CanonicalizeCommitments(commitments)

	h := sha256.New()
	h.Write([]byte(seedDomain))
	h.Write([]byte(canonical))
	h.Write([]byte(salt.Hex()))
	seed := h.Sum(nil)

	keyMaterial := make([]byte, 32)
	reader := hkdf.New(sha256.New, seed, salt.Bytes(), []byte(hkdfInfo))
	if _, err := io.ReadFull(reader, keyMaterial); err != nil {
		return nil, fmt.Errorf("hkdf expansion failed: %w", err)
	}

	keyBytes := clampScalar(keyMaterial)

	privateKey, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("could not build private key from clamped scalar: %w", err)
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	return &interfaces.DerivedKey{
		PrivateKeyHex: hex.EncodeToString(keyBytes),
		Address:       "0x" + hex.EncodeToString(address.Bytes()),
	}, nil
}

// clampScalar maps 32 bytes of key material onto a valid non-zero secp256k1
// private scalar. Values of zero or at least the curve order are reduced
// modulo the order; a zero result after reduction becomes one. The mapping is
// total: every 32-byte input yields a usable scalar with no retry path.
func clampScalar(keyMaterial []byte) []byte {
	order := crypto.S256().Params().N

	scalar := new(big.Int).SetBytes(keyMaterial)
	if scalar.Sign() == 0 || scalar.Cmp(order) >= 0 {
		scalar.Mod(scalar, order)
	}
	if scalar.Sign() == 0 {
		scalar.SetInt64(1)
	}

	out := make([]byte, 32)
	scalar.FillBytes(out)
	return out
}

// AddressForPrivateKey independently recomputes the address belonging to a
// derived private key. Used as the consistency check during recovery.
func AddressForPrivateKey(privateKeyHex string) (string, error) {
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return "", fmt.Errorf("could not parse private key: %w", err)
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey)
	return "0x" + hex.EncodeToString(address.Bytes()), nil
}
