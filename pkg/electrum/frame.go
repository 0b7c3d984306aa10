package electrum

import (
	"bytes"
	"encoding/json"
	"io"
)

const readChunkSize = 4096

// frameReader accumulates chunks from a byte stream until they form one
// syntactically complete JSON document. Electrum servers don't frame
// responses with a length prefix, so re-validating the whole buffer after
// every chunk is the simplest correct strategy for arbitrarily-chunked TCP
// delivery; responses are small enough that the re-parsing cost is
// negligible.
type frameReader struct {
	r     io.Reader
	buf   bytes.Buffer
	chunk []byte
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: r, chunk: make([]byte, readChunkSize)}
}

// readFrame reads until the accumulated buffer parses as one JSON value and
// returns it. If the stream ends first, the response is truncated and
// ErrTruncatedResponse is returned.
func (f *frameReader) readFrame() (json.RawMessage, error) {
	for {
		n, err := f.r.Read(f.chunk)
		if n > 0 {
			f.buf.Write(f.chunk[:n])
			if doc := bytes.TrimSpace(f.buf.Bytes()); json.Valid(doc) {
				frame := make(json.RawMessage, len(doc))
				copy(frame, doc)
				return frame, nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil, ErrTruncatedResponse
			}
			return nil, err
		}
	}
}
