package crawler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
)

type mockElectrum struct {
	history  []electrum.HistoryItem
	err      error
	failures int32
	calls    int32
}

func (m *mockElectrum) GetBalance(string) (electrum.Balance, error) {
	return electrum.Balance{}, m.err
}

func (m *mockElectrum) GetHistory(string) ([]electrum.HistoryItem, error) {
	atomic.AddInt32(&m.calls, 1)
	if atomic.AddInt32(&m.failures, -1) >= 0 {
		return nil, errors.New("connection reset")
	}
	return m.history, m.err
}

func TestCrawlerEmitsAddressHistory(t *testing.T) {
	mock := &mockElectrum{history: []electrum.HistoryItem{
		{TxHash: "aa", Height: 680000},
	}}

	crawlerSvc := NewService(Opts{
		ElectrumSvc:            mock,
		IntervalInMilliseconds: 20,
		RequestsPerSecond:      100,
		ErrorHandler:           func(err error) { t.Error(err) },
	})
	go crawlerSvc.Start()

	crawlerSvc.AddObservable(&AddressObservable{
		Address:    "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		Scripthash: "6e4f16236139f15046b38f399a683fb2aa8edf5fd128b3e5db017fb0ac74078a",
	})

	select {
	case event := <-crawlerSvc.GetEventChannel():
		require.Equal(t, AddressHistory, event.Type())
		historyEvent := event.(AddressHistoryEvent)
		assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", historyEvent.Address)
		assert.Equal(t, mock.history, historyEvent.History)
	case <-time.After(2 * time.Second):
		t.Fatal("no event emitted before timeout")
	}

	crawlerSvc.Stop()
}

func TestCrawlerReportsErrors(t *testing.T) {
	mock := &mockElectrum{err: errors.New("connection refused")}

	errChan := make(chan error, 1)
	crawlerSvc := NewService(Opts{
		ElectrumSvc:            mock,
		IntervalInMilliseconds: 20,
		RequestsPerSecond:      100,
		ErrorHandler: func(err error) {
			select {
			case errChan <- err:
			default:
			}
		},
	})
	go crawlerSvc.Start()

	crawlerSvc.AddObservable(&AddressObservable{
		Address:    "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		Scripthash: "6e4f16236139f15046b38f399a683fb2aa8edf5fd128b3e5db017fb0ac74078a",
	})

	select {
	case err := <-errChan:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported before timeout")
	}

	crawlerSvc.Stop()
}

func TestCrawlerKeepsPollingAfterError(t *testing.T) {
	mock := &mockElectrum{
		history:  []electrum.HistoryItem{{TxHash: "aa", Height: 680000}},
		failures: 1,
	}

	errChan := make(chan error, 1)
	crawlerSvc := NewService(Opts{
		ElectrumSvc:            mock,
		IntervalInMilliseconds: 10,
		RequestsPerSecond:      100,
		ErrorHandler: func(err error) {
			select {
			case errChan <- err:
			default:
			}
		},
	})
	go crawlerSvc.Start()

	crawlerSvc.AddObservable(&AddressObservable{
		Address:    "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		Scripthash: "6e4f16236139f15046b38f399a683fb2aa8edf5fd128b3e5db017fb0ac74078a",
	})

	select {
	case err := <-errChan:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported before timeout")
	}

	// A transient failure must not stop the polling loop.
	select {
	case event := <-crawlerSvc.GetEventChannel():
		require.Equal(t, AddressHistory, event.Type())
		assert.Equal(t, mock.history, event.(AddressHistoryEvent).History)
	case <-time.After(2 * time.Second):
		t.Fatal("observable was not polled again after a transient error")
	}

	crawlerSvc.Stop()
}

func TestCrawlerDefaultsNilErrorHandler(t *testing.T) {
	mock := &mockElectrum{
		history:  []electrum.HistoryItem{{TxHash: "aa", Height: 680000}},
		failures: 1,
	}

	crawlerSvc := NewService(Opts{
		ElectrumSvc:            mock,
		IntervalInMilliseconds: 10,
		RequestsPerSecond:      100,
	})
	go crawlerSvc.Start()

	crawlerSvc.AddObservable(&AddressObservable{
		Address:    "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		Scripthash: "6e4f16236139f15046b38f399a683fb2aa8edf5fd128b3e5db017fb0ac74078a",
	})

	// The first poll fails and must be swallowed, not panic; the second
	// one still emits its event.
	select {
	case event := <-crawlerSvc.GetEventChannel():
		require.Equal(t, AddressHistory, event.Type())
	case <-time.After(2 * time.Second):
		t.Fatal("no event emitted before timeout")
	}

	crawlerSvc.Stop()
}

func TestRemoveObservableStopsPolling(t *testing.T) {
	mock := &mockElectrum{}

	crawlerSvc := NewService(Opts{
		ElectrumSvc:            mock,
		IntervalInMilliseconds: 10,
		RequestsPerSecond:      100,
		ErrorHandler:           func(err error) { t.Error(err) },
	})
	go crawlerSvc.Start()

	observable := &AddressObservable{
		Address:    "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		Scripthash: "6e4f16236139f15046b38f399a683fb2aa8edf5fd128b3e5db017fb0ac74078a",
	}
	crawlerSvc.AddObservable(observable)
	// Adding the same observable twice must not spawn a second handler.
	crawlerSvc.AddObservable(observable)

	time.Sleep(100 * time.Millisecond)
	crawlerSvc.RemoveObservable(observable)
	callsAtRemoval := atomic.LoadInt32(&mock.calls)
	assert.Greater(t, callsAtRemoval, int32(0))

	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&mock.calls), callsAtRemoval+1)
}
