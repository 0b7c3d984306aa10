package rates

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/httputil"
)

// DefaultPriceURL is the public CoinGecko simple-price endpoint.
const DefaultPriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"

type coinGecko struct {
	priceURL string
}

// NewCoinGeckoSource returns a Source backed by the CoinGecko HTTP API.
// An empty priceURL selects DefaultPriceURL.
func NewCoinGeckoSource(priceURL string) Source {
	if len(priceURL) <= 0 {
		priceURL = DefaultPriceURL
	}
	return &coinGecko{priceURL}
}

func (c *coinGecko) FetchRate() (decimal.Decimal, error) {
	payload := struct {
		Bitcoin struct {
			USD float64 `json:"usd"`
		} `json:"bitcoin"`
	}{}

	if err := httputil.GetJSON(c.priceURL, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateUnavailable, err)
	}
	if payload.Bitcoin.USD <= 0 {
		return decimal.Zero, ErrRateUnavailable
	}
	return decimal.NewFromFloat(payload.Bitcoin.USD), nil
}
