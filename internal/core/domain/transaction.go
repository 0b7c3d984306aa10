package domain

const (
	// TxStatusNewMempool marks a transaction observed for the first time
	// while still unconfirmed.
	TxStatusNewMempool TxStatus = iota
	// TxStatusNewConfirmed marks a transaction whose confirmation had not
	// been recorded before.
	TxStatusNewConfirmed
	// TxStatusConfirmedFromMempool marks a transaction that moved from
	// height 0 to a block. It fires together with TxStatusNewConfirmed,
	// also for transactions first observed already confirmed.
	TxStatusConfirmedFromMempool
)

// TxStatus classifies one observation of a transaction against its last
// recorded height.
type TxStatus int

func (s TxStatus) String() string {
	switch s {
	case TxStatusNewMempool:
		return "NewMempool"
	case TxStatusNewConfirmed:
		return "NewConfirmed"
	case TxStatusConfirmedFromMempool:
		return "ConfirmedFromMempool"
	default:
		return "Unknown"
	}
}

// TransactionRecord is a transaction hash with its last observed
// confirmation height, 0 meaning mempool.
type TransactionRecord struct {
	TxHash string
	Height int64
}

// Confirmed reports whether the record points into a block.
func (r TransactionRecord) Confirmed() bool {
	return r.Height > 0
}

// TransactionDelta is the outcome of reconciling one fetched history entry
// against the height store.
type TransactionDelta struct {
	TxHash   string
	Height   int64
	Statuses []TxStatus
}
