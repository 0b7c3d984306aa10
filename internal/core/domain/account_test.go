package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/xpub"
)

const testZpub = "zpub6rFR7y4Q2AijBEqTUquhVz398htDFrtymD9xYYfG1m4wAcvPhXNfE3EfH1r1ADqtfSdVCToUG868RvUUkgDKf31mGDtKsAYz2oz2AGutZYs"

func TestNewAccount(t *testing.T) {
	account, err := NewAccount(testZpub, 20)
	require.NoError(t, err)
	assert.Equal(t, xpub.NativeSegwit, account.ScriptType)
	assert.Equal(t, "native segwit account (...utZYs)", account.Label)
	assert.Equal(t, uint32(20), account.AddressCount)
}

func TestNewAccountFailures(t *testing.T) {
	_, err := NewAccount("notakey", 20)
	assert.Equal(t, ErrInvalidAccountKey, err)

	_, err = NewAccount(testZpub, 0)
	assert.Equal(t, ErrNullAddressCount, err)
}
