package pusula

import "context"

// ChunkStream uses a pull-based iterator pattern over the raw response
// text. Next returns the next chunk as it arrived from the transport, with
// no framing guarantees: a chunk may end in the middle of a multi-byte
// character. Next returns io.EOF when the stream ends normally.
// Cancellation flows through the context passed to Recommender.Recommend.
type ChunkStream interface {
	Next() ([]byte, error)
	Close() error
}

// Recommender is a strategy pattern interface for recommendation
// backends. Implementations stream the producer's raw text; they do not
// interpret it.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (ChunkStream, error)
}
