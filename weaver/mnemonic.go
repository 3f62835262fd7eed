package weaver

import (
	"encoding/hex"
	"fmt"

	"github.com/otherview/key-weaver/interfaces"
	"github.com/tyler-smith/go-bip39"
)

// MnemonicForKey renders the derived private key as a 24-word BIP-39 phrase
// for human backup display. The phrase encodes the same 32 bytes as
// PrivateKeyHex; it is a presentation form, not an alternative derivation.
func MnemonicForKey(key *interfaces.DerivedKey) (string, error) {
	entropy, err := hex.DecodeString(key.PrivateKeyHex)
	if err != nil {
		return "", fmt.Errorf("could not decode private key: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("could not encode mnemonic: %w", err)
	}

	return mnemonic, nil
}
