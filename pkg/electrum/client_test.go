package electrum

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startMockServer accepts one connection, reads one newline-delimited
// request and writes the canned reply in the given chunks before closing.
func startMockServer(t *testing.T, chunks ...string) Server {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		line, err := bufio.NewReader(conn).ReadBytes('\n')
		if err != nil {
			return
		}
		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			return
		}

		for _, chunk := range chunks {
			conn.Write([]byte(chunk))
			time.Sleep(5 * time.Millisecond)
		}
	}()

	return Server{
		Host: "127.0.0.1",
		Port: listener.Addr().(*net.TCPAddr).Port,
	}
}

func newTestService(t *testing.T, chunks ...string) Service {
	t.Helper()
	svc, err := NewService(Opts{
		Servers: []Server{startMockServer(t, chunks...)},
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return svc
}

func TestGetBalance(t *testing.T) {
	svc := newTestService(t,
		`{"id":1,"result":{"confirm`,
		`ed":103873966,"unconfirmed":23684400}}`+"\n",
	)

	balance, err := svc.GetBalance(
		"8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161",
	)
	require.NoError(t, err)
	assert.Equal(t, int64(103873966), balance.Confirmed)
	assert.Equal(t, int64(23684400), balance.Unconfirmed)
	assert.Equal(t, int64(127558366), balance.Total())
}

func TestGetHistory(t *testing.T) {
	svc := newTestService(t,
		`{"id":1,"result":[{"tx_hash":"f3e1bf48975b8d6060a9de8884296abb80be618dc00ae3cb2f6cee3085e09403","height":680000},`,
		`{"tx_hash":"9fbdbf9bd042aeb`,
		`aaa","height":0,"fee":24310}]}`+"\n",
	)

	history, err := svc.GetHistory(
		"8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161",
	)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(
		t,
		"f3e1bf48975b8d6060a9de8884296abb80be618dc00ae3cb2f6cee3085e09403",
		history[0].TxHash,
	)
	assert.Equal(t, int64(680000), history[0].Height)
	assert.True(t, history[0].Confirmed())

	assert.Equal(t, int64(0), history[1].Height)
	assert.Equal(t, int64(24310), history[1].Fee)
	assert.False(t, history[1].Confirmed())
}

func TestGetHistoryEmpty(t *testing.T) {
	svc := newTestService(t, `{"id":1,"result":[]}`+"\n")

	history, err := svc.GetHistory(
		"8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161",
	)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCallNoResult(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"server error object", `{"id":1,"error":{"code":-32601,"message":"unknown method"}}`},
		{"null result", `{"id":1,"result":null}`},
		{"missing result", `{"id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.reply+"\n")
			_, err := svc.GetBalance("00")
			assert.ErrorIs(t, err, ErrNoResult)
		})
	}
}

func TestCallTruncated(t *testing.T) {
	// Server closes mid-document.
	svc := newTestService(t, `{"id":1,"result":{"confi`)
	_, err := svc.GetBalance("00")
	assert.ErrorIs(t, err, ErrTruncatedResponse)
}

func TestCallConnectionRefused(t *testing.T) {
	svc, err := NewService(Opts{
		Servers: []Server{{Host: "127.0.0.1", Port: 1}},
		Timeout: time.Second,
	})
	require.NoError(t, err)

	_, err = svc.GetBalance("00")
	assert.Error(t, err)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(Opts{})
	assert.Equal(t, ErrNullServerList, err)
}
