package electrum

// Balance is the confirmed/unconfirmed pair, in satoshis, returned by
// blockchain.scripthash.get_balance.
type Balance struct {
	Confirmed   int64 `json:"confirmed"`
	Unconfirmed int64 `json:"unconfirmed"`
}

// Total returns confirmed plus unconfirmed satoshis.
func (b Balance) Total() int64 {
	return b.Confirmed + b.Unconfirmed
}

// HistoryItem is one entry of blockchain.scripthash.get_history. Height 0
// means the transaction is still in the mempool.
type HistoryItem struct {
	TxHash string `json:"tx_hash"`
	Height int64  `json:"height"`
	Fee    int64  `json:"fee,omitempty"`
}

// Confirmed reports whether the transaction has been included in a block.
func (h HistoryItem) Confirmed() bool {
	return h.Height > 0
}

// Service is the representation of an Electrum server that allows to fetch
// the balance and the transaction history of a scripthash. Implementations
// open one connection per request and never reuse it.
type Service interface {
	// GetBalance fetches the balance of the given scripthash.
	GetBalance(scripthash string) (Balance, error)
	// GetHistory fetches the list of all txs relative to the given
	// scripthash.
	GetHistory(scripthash string) ([]HistoryItem, error)
}
