package weaver

import (
	"github.com/otherview/key-weaver/interfaces"
	"golang.org/x/crypto/argon2"
)

// SaltFromPassphrase derives a salt from a low-entropy passphrase using
// Argon2id, for callers that want a memorable registration secret instead of
// random bytes. The pepper is a caller-chosen constant that keeps identical
// passphrases from colliding across deployments.
//
// This is a registration-time convenience. NormalizeSalt remains the
// canonical mapping and is idempotent over the result.
func SaltFromPassphrase(passphrase, pepper string) interfaces.Salt {
	var salt interfaces.Salt
	derived := argon2.IDKey([]byte(passphrase), []byte(pepper), 1, 64*1024, 4, 32)
	copy(salt[:], derived)
	return salt
}
