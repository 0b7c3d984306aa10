package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/xpubwatch/xpubwatch-daemon/internal/core/ports"
)

type txHeight struct {
	TxHash string
	Height int64
}

type txHeightRepository struct {
	store *badgerhold.Store
}

// NewTxHeightRepository opens (or creates) the badger store under the given
// base data dir and returns a persistent ports.TxHeightRepository. An empty
// baseDbDir opens the store in memory.
func NewTxHeightRepository(
	baseDbDir string, logger badger.Logger,
) (ports.TxHeightRepository, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "txheights")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening tx height db: %w", err)
	}
	return &txHeightRepository{store}, nil
}

func (r *txHeightRepository) GetHeight(
	_ context.Context, txHash string,
) (int64, bool, error) {
	var record txHeight
	if err := r.store.Get(txHash, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return record.Height, true, nil
}

func (r *txHeightRepository) UpsertHeight(
	_ context.Context, txHash string, height int64,
) error {
	return r.store.Upsert(txHash, &txHeight{TxHash: txHash, Height: height})
}

// Close releases the underlying badger store.
func (r *txHeightRepository) Close() error {
	return r.store.Close()
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer
	if err := json.NewEncoder(&buff).Encode(value); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if len(dbDir) <= 0 {
		opts = opts.WithInMemory(true)
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
