package hdwallet

import (
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/xpub"
)

// receivingChain is the conventional external chain node used by BIP44/49/84
// single-account derivation: every address lives at m/0/i.
const receivingChain = 0

// DeriveAddressesOpts is the struct given to the DeriveAddresses method.
type DeriveAddressesOpts struct {
	ExtendedKey string
	StartIndex  uint32
	Count       uint32
}

func (o DeriveAddressesOpts) validate() error {
	if len(o.ExtendedKey) <= 0 {
		return ErrNullExtendedKey
	}
	if uint64(o.StartIndex)+uint64(o.Count) > uint64(hdkeychain.HardenedKeyStart) {
		return ErrOutOfRangeDerivationIndex
	}
	return nil
}

type cacheKey struct {
	extendedKey string
	startIndex  uint32
	count       uint32
}

// AddressDeriver expands extended public keys into receiving addresses for
// the network it was created for. Successful derivations are memoized for
// the lifetime of the deriver; failed ones are never cached so that
// transient failures are retried on the next call.
type AddressDeriver struct {
	net *chaincfg.Params

	cacheLock *sync.RWMutex
	cache     map[cacheKey][]string
}

// NewAddressDeriver returns an AddressDeriver for the given network.
func NewAddressDeriver(net *chaincfg.Params) *AddressDeriver {
	return &AddressDeriver{
		net:       net,
		cacheLock: &sync.RWMutex{},
		cache:     map[cacheKey][]string{},
	}
}

// DeriveAddresses derives the addresses at m/0/i for every index i in
// [StartIndex, StartIndex+Count), in ascending order. The address encoding is
// fixed by the script type the extended key's version prefix declares. The
// result is all-or-nothing: any failure discards the partial list.
func (d *AddressDeriver) DeriveAddresses(opts DeriveAddressesOpts) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	key := cacheKey{opts.ExtendedKey, opts.StartIndex, opts.Count}
	if addresses, ok := d.getCached(key); ok {
		return addresses, nil
	}

	scriptType, err := xpub.ScriptTypeOf(opts.ExtendedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtendedKey, err)
	}

	hdNode, err := hdkeychain.NewKeyFromString(xpub.ConvertToXpub(opts.ExtendedKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtendedKey, err)
	}

	chainNode, err := hdNode.Derive(receivingChain)
	if err != nil {
		return nil, fmt.Errorf("deriving receiving chain: %w", err)
	}

	addresses := make([]string, 0, opts.Count)
	for i := uint32(0); i < opts.Count; i++ {
		childNode, err := chainNode.Derive(opts.StartIndex + i)
		if err != nil {
			return nil, fmt.Errorf(
				"deriving child %d: %w", opts.StartIndex+i, err,
			)
		}

		pubKey, err := childNode.ECPubKey()
		if err != nil {
			return nil, fmt.Errorf(
				"child %d public key: %w", opts.StartIndex+i, err,
			)
		}

		address, err := encodeAddress(
			pubKey.SerializeCompressed(), scriptType, d.net,
		)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}

	d.setCached(key, addresses)
	return addresses, nil
}

func (d *AddressDeriver) getCached(key cacheKey) ([]string, bool) {
	d.cacheLock.RLock()
	defer d.cacheLock.RUnlock()
	addresses, ok := d.cache[key]
	return addresses, ok
}

func (d *AddressDeriver) setCached(key cacheKey, addresses []string) {
	d.cacheLock.Lock()
	defer d.cacheLock.Unlock()
	d.cache[key] = addresses
}

func encodeAddress(
	compressedPubKey []byte,
	scriptType xpub.ScriptType,
	net *chaincfg.Params,
) (string, error) {
	pubKeyHash := btcutil.Hash160(compressedPubKey)

	switch scriptType {
	case xpub.Legacy:
		address, err := btcutil.NewAddressPubKeyHash(pubKeyHash, net)
		if err != nil {
			return "", err
		}
		return address.EncodeAddress(), nil

	case xpub.NativeSegwit:
		address, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, net)
		if err != nil {
			return "", err
		}
		return address.EncodeAddress(), nil

	case xpub.NestedSegwit:
		witnessAddress, err := btcutil.NewAddressWitnessPubKeyHash(
			pubKeyHash, net,
		)
		if err != nil {
			return "", err
		}
		redeemScript, err := txscript.PayToAddrScript(witnessAddress)
		if err != nil {
			return "", err
		}
		address, err := btcutil.NewAddressScriptHash(redeemScript, net)
		if err != nil {
			return "", err
		}
		return address.EncodeAddress(), nil

	default:
		return "", ErrUnknownScriptType
	}
}
