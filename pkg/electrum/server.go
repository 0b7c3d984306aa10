package electrum

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
)

// Server identifies one Electrum endpoint. The server is trusted by
// host/port, not by certificate chain.
type Server struct {
	Host   string
	Port   int
	UseSSL bool
}

// Addr returns the host:port dial address of the server.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ServerPicker selects the server to use for one request. No health checks
// and no failover: a failing pick surfaces as a failed call and the next
// call picks again.
type ServerPicker interface {
	Pick() Server
}

// DefaultServers returns a list of well-known public Electrum endpoints for
// the given network.
func DefaultServers(net *chaincfg.Params) []Server {
	if net != nil && net.Name == chaincfg.TestNet3Params.Name {
		return []Server{
			{Host: "electrum.blockstream.info", Port: 60002, UseSSL: true},
			{Host: "testnet.aranguren.org", Port: 51002, UseSSL: true},
		}
	}
	return []Server{
		{Host: "electrum.blockstream.info", Port: 50002, UseSSL: true},
		{Host: "electrum.bitaroo.net", Port: 50002, UseSSL: true},
		{Host: "e.keff.org", Port: 50002, UseSSL: true},
		{Host: "electrum.hodlister.co", Port: 50002, UseSSL: true},
	}
}

// ParseServer parses a server from its host:port or host:port:ssl string
// form. The third segment selects the transport, either ssl or tcp, and
// defaults to tcp when absent. The host must be a hostname or IPv4 address;
// IPv6 literals are not supported by this form.
func ParseServer(rawServer string) (Server, error) {
	parts := strings.Split(rawServer, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Server{}, fmt.Errorf(
			"invalid server %q, expected format host:port or host:port:ssl", rawServer,
		)
	}

	port, err := strconv.Atoi(parts[1])
	if err != nil || port <= 0 || port > 65535 {
		return Server{}, fmt.Errorf("invalid port in server %q", rawServer)
	}

	useSSL := false
	if len(parts) == 3 {
		if parts[2] != "ssl" && parts[2] != "tcp" {
			return Server{}, fmt.Errorf(
				"invalid transport in server %q, expected ssl or tcp", rawServer,
			)
		}
		useSSL = parts[2] == "ssl"
	}

	return Server{
		Host:   parts[0],
		Port:   port,
		UseSSL: useSSL,
	}, nil
}

type randomPicker struct {
	servers []Server

	rndLock *sync.Mutex
	rnd     *rand.Rand
}

// NewRandomPicker returns a ServerPicker choosing uniformly at random on
// every call. This is the default selection policy.
func NewRandomPicker(servers []Server) (ServerPicker, error) {
	if len(servers) <= 0 {
		return nil, ErrNullServerList
	}
	return &randomPicker{
		servers: servers,
		rndLock: &sync.Mutex{},
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (p *randomPicker) Pick() Server {
	p.rndLock.Lock()
	defer p.rndLock.Unlock()
	return p.servers[p.rnd.Intn(len(p.servers))]
}

type roundRobinPicker struct {
	servers []Server
	next    uint32
}

// NewRoundRobinPicker returns a ServerPicker cycling through the list in
// order.
func NewRoundRobinPicker(servers []Server) (ServerPicker, error) {
	if len(servers) <= 0 {
		return nil, ErrNullServerList
	}
	return &roundRobinPicker{servers: servers}, nil
}

func (p *roundRobinPicker) Pick() Server {
	n := atomic.AddUint32(&p.next, 1) - 1
	return p.servers[int(n)%len(p.servers)]
}
