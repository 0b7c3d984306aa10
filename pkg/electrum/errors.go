package electrum

import "errors"

var (
	// ErrNullServerList ...
	ErrNullServerList = errors.New("server list must not be empty")
	// ErrTruncatedResponse is returned when the stream ends before the
	// accumulated bytes form a complete JSON document.
	ErrTruncatedResponse = errors.New("stream ended before a complete response")
	// ErrNoResult is returned for responses lacking a usable result,
	// including explicit server error objects.
	ErrNoResult = errors.New("response carries no result")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")
)
