package http

import (
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/pusula"
)

// stream implements [pusula.ChunkStream] by reading the response body as
// it arrives.
type stream struct {
	body   io.ReadCloser
	buf    []byte
	err    error // terminal error, if any
	closed bool
}

// Interface compliance check.
var _ pusula.ChunkStream = (*stream)(nil)

func newStream(body io.ReadCloser) *stream {
	return &stream{
		body: body,
		buf:  make([]byte, readBufferSize),
	}
}

// Next returns the bytes delivered by the next read of the body. Empty
// reads are skipped. Returns io.EOF once the body is exhausted.
func (s *stream) Next() ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("http: %w", pusula.ErrStreamClosed)
	}
	for s.err == nil {
		n, err := s.body.Read(s.buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.err = io.EOF
			} else {
				s.err = fmt.Errorf("http: read body: %w", err)
			}
		}
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, s.buf[:n])
			return chunk, nil
		}
	}
	return nil, s.err
}

// Close releases the response body.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
