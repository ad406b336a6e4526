package mock

import (
	"io"

	"github.com/fwojciec/pusula"
)

// Interface compliance check.
var _ pusula.ChunkStream = (*ChunkStream)(nil)

// ChunkStream is a test double for pusula.ChunkStream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// (no-op) because callers commonly defer Close.
type ChunkStream struct {
	NextFn  func() ([]byte, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *ChunkStream) Next() ([]byte, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *ChunkStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Chunks returns a ChunkStream that yields each chunk in order and then
// io.EOF. If err is non-nil it is returned instead of io.EOF.
func Chunks(err error, chunks ...[]byte) *ChunkStream {
	i := 0
	return &ChunkStream{
		NextFn: func() ([]byte, error) {
			if i >= len(chunks) {
				if err != nil {
					return nil, err
				}
				return nil, io.EOF
			}
			c := chunks[i]
			i++
			return c, nil
		},
	}
}

// TextChunks is Chunks for string chunks ending in io.EOF.
func TextChunks(chunks ...string) *ChunkStream {
	bs := make([][]byte, len(chunks))
	for i, c := range chunks {
		bs[i] = []byte(c)
	}
	return Chunks(nil, bs...)
}
