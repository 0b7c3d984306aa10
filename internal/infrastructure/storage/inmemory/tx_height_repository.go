package inmemory

import (
	"context"
	"sync"

	"github.com/xpubwatch/xpubwatch-daemon/internal/core/ports"
)

type txHeightRepository struct {
	lock    *sync.RWMutex
	heights map[string]int64
}

// NewTxHeightRepository returns an in-memory ports.TxHeightRepository,
// mainly for tests and one-shot CLI runs.
func NewTxHeightRepository() ports.TxHeightRepository {
	return &txHeightRepository{
		lock:    &sync.RWMutex{},
		heights: map[string]int64{},
	}
}

func (r *txHeightRepository) GetHeight(
	_ context.Context, txHash string,
) (int64, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	height, ok := r.heights[txHash]
	return height, ok, nil
}

func (r *txHeightRepository) UpsertHeight(
	_ context.Context, txHash string, height int64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.heights[txHash] = height
	return nil
}
