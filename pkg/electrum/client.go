package electrum

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const (
	// DefaultTimeout bounds dialing and the whole read loop of one request.
	DefaultTimeout = 30 * time.Second

	getBalanceMethod = "blockchain.scripthash.get_balance"
	getHistoryMethod = "blockchain.scripthash.get_history"
)

// Opts defines the parameters needed for creating a client service with the
// NewService method.
type Opts struct {
	// Servers is the fixed list of endpoints to choose from. Ignored if
	// Picker is set.
	Servers []Server
	// Picker overrides the default uniformly-random selection policy.
	Picker ServerPicker
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// AllowInsecureTLS skips certificate chain validation on SSL servers.
	// Off by default; only enable for servers trusted by host/port.
	AllowInsecureTLS bool
}

func (o Opts) validate() error {
	if o.Picker == nil && len(o.Servers) <= 0 {
		return ErrNullServerList
	}
	return nil
}

type client struct {
	picker      ServerPicker
	timeout     time.Duration
	insecureTLS bool
}

// NewService returns a Service talking the Electrum wire protocol over raw
// TCP or TLS sockets. Every call opens a fresh connection to one picked
// server, performs exactly one request/response exchange and closes it.
func NewService(opts Opts) (Service, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	picker := opts.Picker
	if picker == nil {
		p, err := NewRandomPicker(opts.Servers)
		if err != nil {
			return nil, err
		}
		picker = p
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &client{
		picker:      picker,
		timeout:     timeout,
		insecureTLS: opts.AllowInsecureTLS,
	}, nil
}

func (c *client) GetBalance(scripthash string) (Balance, error) {
	result, err := c.call(newRequest(getBalanceMethod, scripthash))
	if err != nil {
		return Balance{}, err
	}

	var balance Balance
	if err := json.Unmarshal(result, &balance); err != nil {
		return Balance{}, fmt.Errorf("%w: %s", ErrNoResult, err)
	}
	return balance, nil
}

func (c *client) GetHistory(scripthash string) ([]HistoryItem, error) {
	result, err := c.call(newRequest(getHistoryMethod, scripthash))
	if err != nil {
		return nil, err
	}

	history := make([]HistoryItem, 0)
	if err := json.Unmarshal(result, &history); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, err)
	}
	return history, nil
}

// call runs one request/response exchange against a freshly picked server.
// The connection is closed on every exit path.
func (c *client) call(req request) (json.RawMessage, error) {
	conn, err := c.dial(c.picker.Pick())
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	// A single newline byte is the protocol's message delimiter.
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	frame, err := newFrameReader(conn).readFrame()
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(frame, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, resp.Error)
	}
	if len(resp.Result) <= 0 || string(resp.Result) == "null" {
		return nil, ErrNoResult
	}
	return resp.Result, nil
}

func (c *client) dial(server Server) (net.Conn, error) {
	if !server.UseSSL {
		return net.DialTimeout("tcp", server.Addr(), c.timeout)
	}
	return tls.DialWithDialer(
		&net.Dialer{Timeout: c.timeout},
		"tcp",
		server.Addr(),
		&tls.Config{
			ServerName:         server.Host,
			InsecureSkipVerify: c.insecureTLS,
		},
	)
}
