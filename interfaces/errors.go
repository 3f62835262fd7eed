package interfaces

import (
	"errors"
	"fmt"

	"github.com/otherview/key-weaver/identity"
)

// InvalidTokenError is re-exported so callers can match extraction failures
// without importing the identity package directly.
type InvalidTokenError = identity.InvalidTokenError

// InsufficientCommitmentsError reports a key derivation attempted with fewer
// commitments than the requested threshold.
type InsufficientCommitmentsError struct {
	Have int
	Need int
}

func (e *InsufficientCommitmentsError) Error() string {
	return fmt.Sprintf("insufficient commitments: have %d, need %d", e.Have, e.Need)
}

// InvalidThresholdError reports a registration with a threshold outside
// 1..len(commitments).
type InvalidThresholdError struct {
	Threshold   int
	Commitments int
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold %d for %d commitments: must satisfy 1 <= threshold <= count", e.Threshold, e.Commitments)
}

// KeyDerivationError reports an internal consistency fault: the address
// independently recomputed from a derived private key did not match the
// address produced by derivation. It indicates a bug or tampering, never a
// user-input problem.
type KeyDerivationError struct {
	Expected string
	Actual   string
}

func (e *KeyDerivationError) Error() string {
	return fmt.Sprintf("key derivation consistency check failed: derived address %s, recomputed %s", e.Expected, e.Actual)
}

// ErrRecordNotFound indicates the requested wallet record does not exist in
// the storage backend.
var ErrRecordNotFound = errors.New("wallet record not found")

// ErrInvalidLocationURI indicates a malformed storage backend location.
var ErrInvalidLocationURI = errors.New("invalid storage location URI")

// ErrStoreUnavailable indicates a storage backend could not be reached.
var ErrStoreUnavailable = errors.New("storage backend unavailable")
