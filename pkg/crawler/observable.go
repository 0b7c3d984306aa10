package crawler

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
)

const (
	New       Status = "NEW"
	Waiting   Status = "WAITING"
	Processed Status = "PROCESSED"
)

type Status string

type observableStatus struct {
	sync.RWMutex
	status Status
}

func newObservableStatus() *observableStatus {
	return &observableStatus{status: New}
}

func (o *observableStatus) Get() Status {
	o.RLock()
	defer o.RUnlock()
	return o.status
}

func (o *observableStatus) Set(status Status) {
	o.Lock()
	defer o.Unlock()
	o.status = status
}

// AddressObservable watches the history of one address through its
// scripthash.
type AddressObservable struct {
	Address    string
	Scripthash string
}

func (a *AddressObservable) observe(
	electrumSvc electrum.Service,
	errChan chan error,
	eventChan chan Event,
	observableStatus *observableStatus,
	rateLimiter *rate.Limiter,
) {
	if a == nil {
		return
	}

	observableStatus.Set(Waiting)
	// Failed calls are an expected outcome; the status must leave Waiting
	// on every exit path or the handler stops polling this observable.
	if err := rateLimiter.Wait(context.Background()); err != nil {
		observableStatus.Set(Processed)
		errChan <- err
		return
	}

	history, err := electrumSvc.GetHistory(a.Scripthash)
	if err != nil {
		observableStatus.Set(Processed)
		errChan <- err
		return
	}

	observableStatus.Set(Processed)

	eventChan <- AddressHistoryEvent{
		Address:    a.Address,
		Scripthash: a.Scripthash,
		History:    history,
	}
}

func (a *AddressObservable) key() string {
	return a.Scripthash
}

type observableHandler struct {
	observable       Observable
	electrumSvc      electrum.Service
	wg               *sync.WaitGroup
	ticker           *time.Ticker
	eventChan        chan Event
	errChan          chan error
	stopChan         chan int
	observableStatus *observableStatus
	rateLimiter      *rate.Limiter
}

func newObservableHandler(
	observable Observable,
	electrumSvc electrum.Service,
	wg *sync.WaitGroup,
	interval int,
	eventChan chan Event,
	errChan chan error,
	rateLimiter *rate.Limiter,
) *observableHandler {
	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	stopChan := make(chan int, 1)

	return &observableHandler{
		observable,
		electrumSvc,
		wg,
		ticker,
		eventChan,
		errChan,
		stopChan,
		newObservableStatus(),
		rateLimiter,
	}
}

func (oh *observableHandler) start() {
	oh.logAction("start")
	oh.wg.Add(1)
	for {
		select {
		case <-oh.ticker.C:
			if oh.observableStatus.Get() != Waiting {
				oh.observable.observe(
					oh.electrumSvc,
					oh.errChan,
					oh.eventChan,
					oh.observableStatus,
					oh.rateLimiter,
				)
			}
		case <-oh.stopChan:
			oh.ticker.Stop()
			close(oh.stopChan)
			return
		}
	}
}

func (oh *observableHandler) stop() {
	oh.logAction("stop")
	oh.stopChan <- 1
	oh.wg.Done()
}

func (oh *observableHandler) logAction(action string) {
	log.Debugf("%s observing scripthash: %v", action, oh.observable.key())
}
