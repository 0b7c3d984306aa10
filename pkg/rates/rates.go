package rates

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrRateUnavailable is returned whenever a fresh rate cannot be
	// obtained. A stale cached value is never served in its place.
	ErrRateUnavailable = errors.New("no rate available")
)

// Source fetches the current BTC/USD exchange rate from an external price
// endpoint.
type Source interface {
	FetchRate() (decimal.Decimal, error)
}
