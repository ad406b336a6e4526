package gemini

import (
	"context"
	"iter"

	"github.com/fwojciec/pusula"
	"google.golang.org/genai"
)

// NewStreamFromIter creates a stream from a raw iterator for testing.
func NewStreamFromIter(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) pusula.ChunkStream {
	return newStream(ctx, seq)
}

// ErrorObject exposes errorObject for testing.
var ErrorObject = errorObject
