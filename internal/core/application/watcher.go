package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/xpubwatch/xpubwatch-daemon/internal/core/domain"
	"github.com/xpubwatch/xpubwatch-daemon/internal/core/ports"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/circuitbreaker"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/hdwallet"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/rates"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/xpub"
)

var (
	// ErrNullElectrumService ...
	ErrNullElectrumService = errors.New("electrum service must not be null")
	// ErrNullDeriver ...
	ErrNullDeriver = errors.New("address deriver must not be null")
	// ErrNullTxRepository ...
	ErrNullTxRepository = errors.New("tx height repository must not be null")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network must not be null")
)

var satsPerBTC = decimal.NewFromInt(100_000_000)

// WatcherService is the boundary the presentation layer and the background
// poller consume. Every operation may return an error instead of a result;
// no failure is fatal and no cache is mutated on a failed fetch.
type WatcherService interface {
	// IsExtendedKey reports whether the string parses as an extended
	// public key.
	IsExtendedKey(key string) bool
	// LabelForKey returns a short descriptive label for an extended key.
	LabelForKey(key string) string
	// DeriveAddresses expands an extended key to the receiving addresses
	// at m/0/i for i in [startIndex, startIndex+count).
	DeriveAddresses(
		ctx context.Context, extendedKey string, startIndex, count uint32,
	) ([]string, error)
	// GetBalance returns the total balance of an address in BTC.
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	// GetHistory returns the transaction history of an address.
	GetHistory(
		ctx context.Context, address string,
	) ([]domain.TransactionRecord, error)
	// CheckHistory fetches the history of an address and reconciles it
	// against the height store, returning one delta per transaction whose
	// observation is news.
	CheckHistory(
		ctx context.Context, address string,
	) ([]domain.TransactionDelta, error)
	// ReconcileHistory reconciles an already fetched history against the
	// height store. Used by the background poller, which fetches through
	// its own channel.
	ReconcileHistory(
		ctx context.Context, history []electrum.HistoryItem,
	) ([]domain.TransactionDelta, error)
	// ConvertToUSD converts a BTC amount with the cached exchange rate.
	ConvertToUSD(
		ctx context.Context, btcAmount decimal.Decimal, forceRefresh bool,
	) (decimal.Decimal, error)
}

// WatcherServiceOpts is the struct given to NewWatcherService.
type WatcherServiceOpts struct {
	ElectrumSvc electrum.Service
	Deriver     *hdwallet.AddressDeriver
	RateCache   *rates.Cache
	TxRepo      ports.TxHeightRepository
	Network     *chaincfg.Params
}

func (o WatcherServiceOpts) validate() error {
	if o.ElectrumSvc == nil {
		return ErrNullElectrumService
	}
	if o.Deriver == nil {
		return ErrNullDeriver
	}
	if o.TxRepo == nil {
		return ErrNullTxRepository
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

type watcherService struct {
	electrumSvc electrum.Service
	deriver     *hdwallet.AddressDeriver
	rateCache   *rates.Cache
	txRepo      ports.TxHeightRepository
	network     *chaincfg.Params
	cb          *gobreaker.CircuitBreaker
}

// NewWatcherService returns a WatcherService wired to the given
// collaborators. The rate cache is optional; without it ConvertToUSD always
// signals unavailability.
func NewWatcherService(opts WatcherServiceOpts) (WatcherService, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &watcherService{
		electrumSvc: opts.ElectrumSvc,
		deriver:     opts.Deriver,
		rateCache:   opts.RateCache,
		txRepo:      opts.TxRepo,
		network:     opts.Network,
		cb:          circuitbreaker.NewCircuitBreaker(),
	}, nil
}

func (s *watcherService) IsExtendedKey(key string) bool {
	return xpub.IsExtendedKey(key)
}

func (s *watcherService) LabelForKey(key string) string {
	return xpub.Label(key)
}

func (s *watcherService) DeriveAddresses(
	_ context.Context, extendedKey string, startIndex, count uint32,
) ([]string, error) {
	return s.deriver.DeriveAddresses(hdwallet.DeriveAddressesOpts{
		ExtendedKey: extendedKey,
		StartIndex:  startIndex,
		Count:       count,
	})
}

func (s *watcherService) GetBalance(
	_ context.Context, address string,
) (decimal.Decimal, error) {
	scripthash, err := electrum.AddressToScripthash(address, s.network)
	if err != nil {
		return decimal.Zero, err
	}

	iBalance, err := s.cb.Execute(func() (interface{}, error) {
		return s.electrumSvc.GetBalance(scripthash)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching balance: %w", err)
	}
	balance := iBalance.(electrum.Balance)
	return decimal.NewFromInt(balance.Total()).Div(satsPerBTC), nil
}

func (s *watcherService) GetHistory(
	_ context.Context, address string,
) ([]domain.TransactionRecord, error) {
	history, err := s.fetchHistory(address)
	if err != nil {
		return nil, err
	}

	records := make([]domain.TransactionRecord, 0, len(history))
	for _, item := range history {
		records = append(records, domain.TransactionRecord{
			TxHash: item.TxHash,
			Height: item.Height,
		})
	}
	return records, nil
}

func (s *watcherService) CheckHistory(
	ctx context.Context, address string,
) ([]domain.TransactionDelta, error) {
	history, err := s.fetchHistory(address)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, history)
}

func (s *watcherService) ReconcileHistory(
	ctx context.Context, history []electrum.HistoryItem,
) ([]domain.TransactionDelta, error) {
	return s.reconcile(ctx, history)
}

func (s *watcherService) ConvertToUSD(
	_ context.Context, btcAmount decimal.Decimal, forceRefresh bool,
) (decimal.Decimal, error) {
	if s.rateCache == nil {
		return decimal.Zero, rates.ErrRateUnavailable
	}
	return s.rateCache.Convert(btcAmount, forceRefresh)
}

func (s *watcherService) fetchHistory(address string) ([]electrum.HistoryItem, error) {
	scripthash, err := electrum.AddressToScripthash(address, s.network)
	if err != nil {
		return nil, err
	}

	iHistory, err := s.cb.Execute(func() (interface{}, error) {
		return s.electrumSvc.GetHistory(scripthash)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	return iHistory.([]electrum.HistoryItem), nil
}

// reconcile classifies every fetched transaction against its last recorded
// height and writes changed heights through before returning. A transaction
// first observed already confirmed fires both NewConfirmed and
// ConfirmedFromMempool; the overlap is deliberate.
//
// A height is persisted before its delta is recorded, so a store failure
// mid-batch returns the deltas of the already persisted items together with
// the error; the failed item stays unrecorded and is reported again on the
// next poll.
func (s *watcherService) reconcile(
	ctx context.Context, history []electrum.HistoryItem,
) ([]domain.TransactionDelta, error) {
	deltas := make([]domain.TransactionDelta, 0, len(history))

	for _, item := range history {
		prevHeight, seen, err := s.txRepo.GetHeight(ctx, item.TxHash)
		if err != nil {
			return deltas, fmt.Errorf("reading tx height: %w", err)
		}

		if !seen || prevHeight != item.Height {
			if err := s.txRepo.UpsertHeight(
				ctx, item.TxHash, item.Height,
			); err != nil {
				return deltas, fmt.Errorf("recording tx height: %w", err)
			}
		}

		if statuses := classify(prevHeight, seen, item.Height); len(statuses) > 0 {
			deltas = append(deltas, domain.TransactionDelta{
				TxHash:   item.TxHash,
				Height:   item.Height,
				Statuses: statuses,
			})
		}
	}

	return deltas, nil
}

func classify(prevHeight int64, seen bool, height int64) []domain.TxStatus {
	switch {
	case !seen && height == 0:
		return []domain.TxStatus{domain.TxStatusNewMempool}
	case prevHeight == 0 && height > 0:
		// Covers both the unseen-and-confirmed and the
		// mempool-to-confirmed transitions.
		return []domain.TxStatus{
			domain.TxStatusNewConfirmed,
			domain.TxStatusConfirmedFromMempool,
		}
	default:
		return nil
	}
}
