package electrum

import (
	"encoding/json"
	"fmt"
)

// requestID is the constant JSON-RPC id used for every request. Only one
// request is ever outstanding on a connection, so correlation is trivial.
const requestID = 1

type request struct {
	Jsonrpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

func newRequest(method string, params ...interface{}) request {
	if params == nil {
		params = []interface{}{}
	}
	return request{
		Jsonrpc: "2.0",
		Method:  method,
		Params:  params,
		ID:      requestID,
	}
}

type response struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *responseError  `json:"error,omitempty"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *responseError) Error() string {
	return fmt.Sprintf("electrum server error %d: %s", e.Code, e.Message)
}
