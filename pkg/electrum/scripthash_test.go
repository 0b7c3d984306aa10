package electrum

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressToScripthash(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{
			// Example from the Electrum protocol documentation.
			name:    "p2pkh genesis",
			address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
			want:    "8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161",
		},
		{
			name:    "p2wpkh",
			address: "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
			want:    "6e4f16236139f15046b38f399a683fb2aa8edf5fd128b3e5db017fb0ac74078a",
		},
		{
			name:    "p2pkh",
			address: "1JaUQDVNRdhfNsVncGkXedaPSM5Gc54Hso",
			want:    "bbe8218e5796136de33442ce7e341f4d8e4c3ffc5be8df8721e0fac4055c23d5",
		},
		{
			name:    "p2sh",
			address: "3GtVZYzsKF6Feikdjd4bDyPdAiyeHANY9b",
			want:    "880113a2ebae307b4d248f72b5e659d1ef9dfe556291134d435d95ec1ce22aa5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scripthash, err := AddressToScripthash(
				tt.address, &chaincfg.MainNetParams,
			)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scripthash)
		})
	}
}

func TestAddressToScripthashFailure(t *testing.T) {
	_, err := AddressToScripthash("notanaddress", &chaincfg.MainNetParams)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// Testnet address on mainnet params must be rejected.
	_, err = AddressToScripthash(
		"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", &chaincfg.MainNetParams,
	)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
