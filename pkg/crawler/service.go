package crawler

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
)

const (
	eventQueueMaxSize = 100
	errorQueueMaxSize = 10
)

type addressCrawler struct {
	interval     int
	electrumSvc  electrum.Service
	errChan      chan error
	eventChan    chan Event
	observables  map[string]*observableHandler
	errorHandler func(err error)
	mutex        *sync.RWMutex
	wg           *sync.WaitGroup
	rateLimiter  *rate.Limiter
}

// Opts defines the parameters needed for creating a crawler service with
// the NewService method.
type Opts struct {
	ElectrumSvc            electrum.Service
	IntervalInMilliseconds int
	RequestsPerSecond      int
	ErrorHandler           func(err error)
}

// NewService returns an addressCrawler that is ready to watch for address
// activity. Use Start and Stop methods to manage it.
func NewService(opts Opts) Service {
	requestsPerSecond := opts.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(error) {}
	}

	return &addressCrawler{
		interval:     opts.IntervalInMilliseconds,
		electrumSvc:  opts.ElectrumSvc,
		errChan:      make(chan error, errorQueueMaxSize),
		eventChan:    make(chan Event, eventQueueMaxSize),
		observables:  map[string]*observableHandler{},
		errorHandler: errorHandler,
		mutex:        &sync.RWMutex{},
		wg:           &sync.WaitGroup{},
		rateLimiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Start starts the crawler which periodically polls the server for the
// history of every watched observable.
func (ac *addressCrawler) Start() {
	for {
		err, more := <-ac.errChan
		if !more {
			return
		}
		go ac.errorHandler(err)
	}
}

// Stop stops the crawler.
func (ac *addressCrawler) Stop() {
	ac.mutex.Lock()
	defer ac.mutex.Unlock()
	for _, obsHandler := range ac.observables {
		go obsHandler.stop()
	}
	ac.wg.Wait()
	ac.eventChan <- QuitEvent{}
	close(ac.errChan)
}

// GetEventChannel returns the Event channel which can be used to "listen"
// to address activity.
func (ac *addressCrawler) GetEventChannel() chan Event {
	ac.mutex.RLock()
	defer ac.mutex.RUnlock()
	return ac.eventChan
}

// AddObservable adds a new Observable to the watched list only if the same
// Observable is not already in it.
func (ac *addressCrawler) AddObservable(observable Observable) {
	ac.mutex.Lock()
	defer ac.mutex.Unlock()

	if _, ok := ac.observables[observable.key()]; !ok {
		obsHandler := newObservableHandler(
			observable,
			ac.electrumSvc,
			ac.wg,
			ac.interval,
			ac.eventChan,
			ac.errChan,
			ac.rateLimiter,
		)

		ac.observables[observable.key()] = obsHandler
		go obsHandler.start()
	}
}

// RemoveObservable stops watching the given Observable.
func (ac *addressCrawler) RemoveObservable(observable Observable) {
	ac.mutex.Lock()
	defer ac.mutex.Unlock()

	if obsHandler, ok := ac.observables[observable.key()]; ok {
		obsHandler.stop()
		delete(ac.observables, observable.key())
	}
}
