package rates

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rate    decimal.Decimal
	err     error
	fetches int
}

func (s *fakeSource) FetchRate() (decimal.Decimal, error) {
	s.fetches++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.rate, nil
}

func TestGetRateHitsCacheWithinTTL(t *testing.T) {
	source := &fakeSource{rate: decimal.NewFromInt(65000)}
	cache := NewCache(source, time.Minute)

	first, err := cache.GetRate(false)
	require.NoError(t, err)
	second, err := cache.GetRate(false)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, source.fetches)
}

func TestGetRateForceRefreshAlwaysFetches(t *testing.T) {
	source := &fakeSource{rate: decimal.NewFromInt(65000)}
	cache := NewCache(source, time.Minute)

	_, err := cache.GetRate(false)
	require.NoError(t, err)
	_, err = cache.GetRate(true)
	require.NoError(t, err)

	assert.Equal(t, 2, source.fetches)
}

func TestGetRateRefreshesAfterTTL(t *testing.T) {
	source := &fakeSource{rate: decimal.NewFromInt(65000)}
	cache := NewCache(source, 10*time.Millisecond)

	_, err := cache.GetRate(false)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = cache.GetRate(false)
	require.NoError(t, err)
	assert.Equal(t, 2, source.fetches)
}

func TestGetRateNeverServesStaleOnFailure(t *testing.T) {
	source := &fakeSource{rate: decimal.NewFromInt(65000)}
	cache := NewCache(source, time.Minute)

	_, err := cache.GetRate(false)
	require.NoError(t, err)

	// The next refresh fails: the stale value must not be served.
	source.err = errors.New("endpoint down")
	rate, err := cache.GetRate(true)
	assert.ErrorIs(t, err, ErrRateUnavailable)
	assert.True(t, rate.IsZero())
}

func TestConvert(t *testing.T) {
	source := &fakeSource{rate: decimal.NewFromInt(65000)}
	cache := NewCache(source, time.Minute)

	usd, err := cache.Convert(decimal.NewFromFloat(0.5), false)
	require.NoError(t, err)
	assert.True(t, usd.Equal(decimal.NewFromInt(32500)))

	source.err = errors.New("endpoint down")
	_, err = cache.Convert(decimal.NewFromInt(1), true)
	assert.ErrorIs(t, err, ErrRateUnavailable)
}
