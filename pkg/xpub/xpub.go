package xpub

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// The serialized format of an extended key is:
//   version (4) || depth (1) || parent fingerprint (4) ||
//   child num (4) || chain code (32) || key data (33) || checksum (4)
const (
	serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33
	checksumLen      = 4
)

var versionBytes = map[string][]byte{
	"xpub": {0x04, 0x88, 0xb2, 0x1e},
	"ypub": {0x04, 0x9d, 0x7c, 0xb2},
	"zpub": {0x04, 0xb2, 0x47, 0x46},
	"tpub": {0x04, 0x35, 0x87, 0xcf},
	"upub": {0x04, 0x4a, 0x52, 0x62},
	"vpub": {0x04, 0x5f, 0x1c, 0xf6},
}

// ExtendedKey is an immutable parsed BIP32 extended public key.
type ExtendedKey struct {
	payload []byte
}

// Decode parses a base58check-encoded extended public key, validating its
// length, checksum, version prefix and embedded key material.
func Decode(key string) (*ExtendedKey, error) {
	decoded := base58.Decode(strings.TrimSpace(key))
	if len(decoded) != serializedKeyLen+checksumLen {
		return nil, ErrInvalidKeyLength
	}

	payload := decoded[:serializedKeyLen]
	checksum := decoded[serializedKeyLen:]
	if !bytes.Equal(checksum, chainhash.DoubleHashB(payload)[:checksumLen]) {
		return nil, ErrBadChecksum
	}

	if !isKnownVersion(payload[:4]) {
		return nil, ErrUnknownVersion
	}

	// Serialized compressed pubkeys start with 0x02 or 0x03, a private key
	// payload starts with 0x00.
	keyData := payload[45:78]
	if keyData[0] != 0x02 && keyData[0] != 0x03 {
		return nil, ErrNotPublicKey
	}
	if _, err := btcec.ParsePubKey(keyData); err != nil {
		return nil, ErrNotPublicKey
	}

	k := &ExtendedKey{payload: make([]byte, serializedKeyLen)}
	copy(k.payload, payload)
	return k, nil
}

// Version returns the 4-byte version prefix.
func (k *ExtendedKey) Version() []byte {
	version := make([]byte, 4)
	copy(version, k.payload[:4])
	return version
}

// Depth returns the derivation depth of the key.
func (k *ExtendedKey) Depth() uint8 {
	return k.payload[4]
}

// ParentFingerprint returns the fingerprint of the parent key.
func (k *ExtendedKey) ParentFingerprint() uint32 {
	return binary.BigEndian.Uint32(k.payload[5:9])
}

// ChildNum returns the child index this key was derived at.
func (k *ExtendedKey) ChildNum() uint32 {
	return binary.BigEndian.Uint32(k.payload[9:13])
}

// ChainCode returns the 32-byte chain code.
func (k *ExtendedKey) ChainCode() []byte {
	chainCode := make([]byte, 32)
	copy(chainCode, k.payload[13:45])
	return chainCode
}

// PubKeyBytes returns the 33-byte compressed public key material.
func (k *ExtendedKey) PubKeyBytes() []byte {
	keyData := make([]byte, 33)
	copy(keyData, k.payload[45:78])
	return keyData
}

// WithVersion returns a copy of the key with its version prefix overwritten
// by the given 4 bytes. All other fields are preserved as-is.
func (k *ExtendedKey) WithVersion(version []byte) *ExtendedKey {
	retargeted := &ExtendedKey{payload: make([]byte, serializedKeyLen)}
	copy(retargeted.payload, k.payload)
	copy(retargeted.payload[:4], version[:4])
	return retargeted
}

// String re-encodes the key with base58check, recomputing the checksum.
func (k *ExtendedKey) String() string {
	checksum := chainhash.DoubleHashB(k.payload)[:checksumLen]
	return base58.Encode(append(append([]byte{}, k.payload...), checksum...))
}

// ConvertToXpub rewrites the version prefix of the given extended public key
// to the xpub constant and re-encodes it. An already-xpub key is passed
// through unchanged. If the key cannot be decoded the original string is
// returned as documented fallback, so callers must treat an output equal to
// a non-xpub input as "conversion did not occur".
func ConvertToXpub(key string) string {
	trimmed := strings.TrimSpace(key)
	if strings.HasPrefix(trimmed, "xpub") {
		return trimmed
	}

	decoded, err := Decode(trimmed)
	if err != nil {
		return key
	}
	return decoded.WithVersion(versionBytes["xpub"]).String()
}

// IsExtendedKey reports whether the given string is a well-formed extended
// public key of any supported version.
func IsExtendedKey(key string) bool {
	trimmed := strings.TrimSpace(key)
	if len(trimmed) < 4 {
		return false
	}
	if _, ok := versionBytes[trimmed[:4]]; !ok {
		return false
	}
	_, err := Decode(trimmed)
	return err == nil
}

func isKnownVersion(version []byte) bool {
	for _, v := range versionBytes {
		if bytes.Equal(version, v) {
			return true
		}
	}
	return false
}
