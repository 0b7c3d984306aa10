package ports

import "context"

// TxHeightRepository persists the last observed confirmation height per
// transaction hash. Heights are written through before a reconciliation
// returns; entries are never deleted by the core.
type TxHeightRepository interface {
	// GetHeight returns the recorded height for the given hash and
	// whether the hash has been seen at all.
	GetHeight(ctx context.Context, txHash string) (int64, bool, error)
	// UpsertHeight records the latest observed height for the hash.
	UpsertHeight(ctx context.Context, txHash string, height int64) error
}
