package domain

import (
	"errors"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/xpub"
)

var (
	// ErrInvalidAccountKey ...
	ErrInvalidAccountKey = errors.New("account key is not a valid extended public key")
	// ErrNullAddressCount ...
	ErrNullAddressCount = errors.New("account address count must be positive")
)

// Account is one watched extended public key and the size of its receiving
// address window.
type Account struct {
	ExtendedKey  string
	ScriptType   xpub.ScriptType
	Label        string
	AddressCount uint32
}

// NewAccount validates the extended key and returns the account with its
// script type and display label filled in.
func NewAccount(extendedKey string, addressCount uint32) (*Account, error) {
	if !xpub.IsExtendedKey(extendedKey) {
		return nil, ErrInvalidAccountKey
	}
	if addressCount <= 0 {
		return nil, ErrNullAddressCount
	}

	scriptType, err := xpub.ScriptTypeOf(extendedKey)
	if err != nil {
		return nil, ErrInvalidAccountKey
	}

	return &Account{
		ExtendedKey:  extendedKey,
		ScriptType:   scriptType,
		Label:        xpub.Label(extendedKey),
		AddressCount: addressCount,
	}, nil
}
