package hdwallet

import "errors"

var (
	// ErrNullExtendedKey ...
	ErrNullExtendedKey = errors.New("extended key must not be null")
	// ErrInvalidExtendedKey ...
	ErrInvalidExtendedKey = errors.New("invalid extended key")
	// ErrOutOfRangeDerivationIndex is returned when the requested index
	// window reaches into the hardened range, which public-only derivation
	// can never serve.
	ErrOutOfRangeDerivationIndex = errors.New("derivation index out of non-hardened range")
	// ErrUnknownScriptType ...
	ErrUnknownScriptType = errors.New("unknown script type")
)
