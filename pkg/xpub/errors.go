package xpub

import "errors"

var (
	// ErrInvalidKeyLength is returned if a decoded extended key is not
	// exactly 82 bytes (78-byte payload plus 4-byte checksum).
	ErrInvalidKeyLength = errors.New("invalid extended key length")
	// ErrBadChecksum is returned if the trailing 4 bytes of a decoded key
	// don't match the double-SHA256 of its payload.
	ErrBadChecksum = errors.New("bad extended key checksum")
	// ErrUnknownVersion is returned for version prefixes outside the
	// supported xpub/ypub/zpub (and testnet) family.
	ErrUnknownVersion = errors.New("unknown extended key version")
	// ErrNotPublicKey is returned if the embedded key material is a
	// private key or does not parse as a compressed secp256k1 point.
	ErrNotPublicKey = errors.New("extended key does not carry a valid public key")
)
