package xpub

import (
	"fmt"
	"strings"
)

const (
	// Legacy is P2PKH, declared by an xpub/tpub prefix (BIP44).
	Legacy ScriptType = iota
	// NestedSegwit is P2SH-P2WPKH, declared by a ypub/upub prefix (BIP49).
	NestedSegwit
	// NativeSegwit is P2WPKH, declared by a zpub/vpub prefix (BIP84).
	NativeSegwit
)

// ScriptType is the address encoding declared by an extended key's version
// prefix. It is fixed for all addresses derived from one key.
type ScriptType int

func (s ScriptType) String() string {
	switch s {
	case Legacy:
		return "legacy"
	case NestedSegwit:
		return "nested segwit"
	case NativeSegwit:
		return "native segwit"
	default:
		return "unknown"
	}
}

var scriptTypeByPrefix = map[string]ScriptType{
	"xpub": Legacy,
	"tpub": Legacy,
	"ypub": NestedSegwit,
	"upub": NestedSegwit,
	"zpub": NativeSegwit,
	"vpub": NativeSegwit,
}

// ScriptTypeOf returns the script type declared by the version prefix of the
// given extended key string.
func ScriptTypeOf(key string) (ScriptType, error) {
	trimmed := strings.TrimSpace(key)
	if len(trimmed) < 4 {
		return 0, ErrUnknownVersion
	}
	scriptType, ok := scriptTypeByPrefix[trimmed[:4]]
	if !ok {
		return 0, ErrUnknownVersion
	}
	return scriptType, nil
}

// Label returns a short human-readable description of the given extended key
// for display purposes, eg. "native segwit account (...utZYs)".
func Label(key string) string {
	trimmed := strings.TrimSpace(key)
	scriptType, err := ScriptTypeOf(trimmed)
	if err != nil {
		return "unknown account"
	}
	suffix := trimmed
	if len(suffix) > 5 {
		suffix = suffix[len(suffix)-5:]
	}
	return fmt.Sprintf("%s account (...%s)", scriptType, suffix)
}
