package electrum

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader replays its chunks one Read call at a time, then EOF.
type chunkedReader struct {
	chunks [][]byte
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func TestReadFrameChunkBoundaryIndependence(t *testing.T) {
	doc := `{"id":1,"result":[{"tx_hash":"aa","height":100}]}` + "\n"

	tests := []struct {
		name   string
		chunks [][]byte
	}{
		{"single chunk", [][]byte{[]byte(doc)}},
		{"three chunks", [][]byte{
			[]byte(doc[:7]), []byte(doc[7:29]), []byte(doc[29:]),
		}},
		{"byte at a time", splitBytes(doc)},
	}

	var want string
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := newFrameReader(
				&chunkedReader{chunks: tt.chunks},
			).readFrame()
			require.NoError(t, err)
			if i == 0 {
				want = string(frame)
				return
			}
			assert.Equal(t, want, string(frame))
		})
	}
}

func TestReadFrameTruncated(t *testing.T) {
	frame, err := newFrameReader(&chunkedReader{
		chunks: [][]byte{[]byte(`{"id":1,"result":`)},
	}).readFrame()
	assert.Equal(t, ErrTruncatedResponse, err)
	assert.Nil(t, frame)

	frame, err = newFrameReader(&chunkedReader{}).readFrame()
	assert.Equal(t, ErrTruncatedResponse, err)
	assert.Nil(t, frame)
}

func splitBytes(s string) [][]byte {
	chunks := make([][]byte, 0, len(s))
	for i := range s {
		chunks = append(chunks, []byte{s[i]})
	}
	return chunks
}
