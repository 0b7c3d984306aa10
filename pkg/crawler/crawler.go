package crawler

import (
	"golang.org/x/time/rate"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
)

// Event are emitted through a channel during observation.
type Event interface {
	Type() EventType
}

// Observable represents an identity that can be watched on the chain
// through an Electrum server.
type Observable interface {
	observe(
		electrumSvc electrum.Service,
		errChan chan error,
		eventChan chan Event,
		observableStatus *observableStatus,
		rateLimiter *rate.Limiter,
	)
	key() string
}

// Service is the interface for the Crawler.
type Service interface {
	Start()
	Stop()
	AddObservable(observable Observable)
	RemoveObservable(observable Observable)
	GetEventChannel() chan Event
}
