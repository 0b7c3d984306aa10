package rates

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTTL is how long a fetched rate is served without refreshing.
const DefaultTTL = 15 * time.Minute

// Cache is a time-boxed cache of a single exchange rate value. The slot is
// replaced wholesale on refresh, never merged, and a failed refresh
// propagates as ErrRateUnavailable even when a stale value exists.
type Cache struct {
	source Source
	ttl    time.Duration

	lock      *sync.Mutex
	value     decimal.Decimal
	fetchedAt time.Time
	hasValue  bool
}

// NewCache returns a Cache over the given source. A non-positive ttl
// selects DefaultTTL.
func NewCache(source Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source: source,
		ttl:    ttl,
		lock:   &sync.Mutex{},
	}
}

// GetRate returns the cached rate if it is younger than the TTL, otherwise
// fetches a fresh one. forceRefresh always fetches regardless of age.
func (c *Cache) GetRate(forceRefresh bool) (decimal.Decimal, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !forceRefresh && c.hasValue && time.Since(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	value, err := c.source.FetchRate()
	if err != nil {
		if errors.Is(err, ErrRateUnavailable) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateUnavailable, err)
	}

	c.value = value
	c.fetchedAt = time.Now()
	c.hasValue = true
	return value, nil
}

// Convert multiplies the given BTC amount by the current rate, or signals
// unavailability if no rate could be obtained.
func (c *Cache) Convert(amount decimal.Decimal, forceRefresh bool) (decimal.Decimal, error) {
	rate, err := c.GetRate(forceRefresh)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
