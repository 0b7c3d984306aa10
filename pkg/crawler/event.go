package crawler

import "github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"

const (
	QuitSignal EventType = iota
	AddressHistory
)

type EventType int

func (et EventType) String() string {
	switch et {
	case QuitSignal:
		return "QuitSignal"
	case AddressHistory:
		return "AddressHistory"
	default:
		return "Unknown"
	}
}

type QuitEvent struct{}

func (q QuitEvent) Type() EventType {
	return QuitSignal
}

// AddressHistoryEvent carries the freshly fetched history of one watched
// address. Reconciling it against previously seen heights is up to the
// listener.
type AddressHistoryEvent struct {
	Address    string
	Scripthash string
	History    []electrum.HistoryItem
}

func (a AddressHistoryEvent) Type() EventType {
	return AddressHistory
}
