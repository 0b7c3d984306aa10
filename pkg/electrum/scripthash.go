package electrum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ScripthashFromScript returns the Electrum identifier of an output script:
// its SHA-256 digest with the byte order reversed, hex-encoded lowercase.
// The transform must match the server byte-for-byte or queries silently
// address a different identity.
func ScripthashFromScript(script []byte) string {
	digest := sha256.Sum256(script)
	for i, j := 0, len(digest)-1; i < j; i, j = i+1, j-1 {
		digest[i], digest[j] = digest[j], digest[i]
	}
	return hex.EncodeToString(digest[:])
}

// AddressToScripthash builds the canonical output script of the given
// address and returns its scripthash.
func AddressToScripthash(address string, net *chaincfg.Params) (string, error) {
	decoded, err := btcutil.DecodeAddress(address, net)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	script, err := txscript.PayToAddrScript(decoded)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	return ScripthashFromScript(script), nil
}
