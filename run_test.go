package pusula_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/pusula"
	"github.com/fwojciec/pusula/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func streaming(s pusula.ChunkStream) *mock.Recommender {
	return &mock.Recommender{
		RecommendFn: func(ctx context.Context, req pusula.Request) (pusula.ChunkStream, error) {
			return s, nil
		},
	}
}

func collect(published *[]pusula.Outcome) pusula.RunOption {
	return pusula.WithOutcomeHandler(func(o pusula.Outcome) {
		*published = append(*published, o)
	})
}

func TestRun_PublishesResultsInOrder(t *testing.T) {
	t.Parallel()
	r := streaming(mock.TextChunks(
		"```json\n",
		`{"primary_crop":"Buğday"}`,
		"\n```",
	))

	var published []pusula.Outcome
	out, err := pusula.Run(context.Background(), r, pusula.Request{}, collect(&published))

	require.NoError(t, err)
	want := pusula.GotResult{Object: pusula.Object{"primary_crop": "Buğday"}}
	assert.Equal(t, want, out)
	// One after the object chunk, one after the closing fence, one at end.
	assert.Equal(t, []pusula.Outcome{want, want, want}, published)
}

func TestRun_PartialObject(t *testing.T) {
	t.Parallel()
	r := streaming(mock.TextChunks(`{"a"`, `:1,"b":2}`))

	var published []pusula.Outcome
	out, err := pusula.Run(context.Background(), r, pusula.Request{}, collect(&published))

	require.NoError(t, err)
	want := pusula.GotResult{Object: pusula.Object{"a": float64(1), "b": float64(2)}}
	assert.Equal(t, want, out)
	assert.Equal(t, []pusula.Outcome{want, want}, published)
}

func TestRun_ErrorObjectStopsReading(t *testing.T) {
	t.Parallel()
	chunks := []string{
		`{"error":"API hatası",`,
		`"message":"Bir hata oluştu: boom"}`,
		`{"primary_crop":"Mısır"}`,
	}
	reads := 0
	closed := false
	s := &mock.ChunkStream{
		NextFn: func() ([]byte, error) {
			c := chunks[reads]
			reads++
			return []byte(c), nil
		},
		CloseFn: func() error {
			closed = true
			return nil
		},
	}

	var published []pusula.Outcome
	out, err := pusula.Run(context.Background(), streaming(s), pusula.Request{}, collect(&published))

	require.NoError(t, err)
	want := pusula.GotError{Object: pusula.Object{
		"error":   "API hatası",
		"message": "Bir hata oluştu: boom",
	}}
	assert.Equal(t, want, out)
	assert.Equal(t, []pusula.Outcome{want}, published)
	assert.Equal(t, 2, reads)
	assert.True(t, closed)
}

func TestRun_RecommendFailure(t *testing.T) {
	t.Parallel()
	r := &mock.Recommender{
		RecommendFn: func(ctx context.Context, req pusula.Request) (pusula.ChunkStream, error) {
			return nil, errors.New("HTTP error! status: 500")
		},
	}

	var published []pusula.Outcome
	out, err := pusula.Run(context.Background(), r, pusula.Request{}, collect(&published))

	require.NoError(t, err)
	want := pusula.GotError{Object: pusula.Object{
		"error":   "Hata",
		"message": "HTTP error! status: 500",
	}}
	assert.Equal(t, want, out)
	assert.Equal(t, []pusula.Outcome{want}, published)
}

func TestRun_ReadFailureAfterResult(t *testing.T) {
	t.Parallel()
	r := streaming(mock.Chunks(errors.New("connection reset"), []byte(`{"a":1}`)))

	var published []pusula.Outcome
	out, err := pusula.Run(context.Background(), r, pusula.Request{}, collect(&published))

	require.NoError(t, err)
	failure := pusula.GotError{Object: pusula.Object{"error": "Hata", "message": "connection reset"}}
	assert.Equal(t, failure, out)
	require.Len(t, published, 2)
	assert.Equal(t, pusula.GotResult{Object: pusula.Object{"a": float64(1)}}, published[0])
	assert.Equal(t, failure, published[1])
}

func TestRun_NothingParseable(t *testing.T) {
	t.Parallel()

	t.Run("no brace", func(t *testing.T) {
		t.Parallel()
		r := streaming(mock.TextChunks("Üzgünüm, ", "yardımcı olamam."))
		var published []pusula.Outcome
		out, err := pusula.Run(context.Background(), r, pusula.Request{}, collect(&published))

		require.NoError(t, err)
		assert.Equal(t, pusula.NoCandidate{}, out)
		assert.Empty(t, published)
	})

	t.Run("truncated object", func(t *testing.T) {
		t.Parallel()
		r := streaming(mock.TextChunks(`{"primary_crop":`, `"Arpa"`))
		var published []pusula.Outcome
		out, err := pusula.Run(context.Background(), r, pusula.Request{}, collect(&published))

		require.NoError(t, err)
		assert.Equal(t, pusula.ParseFailed{}, out)
		assert.Empty(t, published)
	})
}

func TestRun_KeepsLastResultWhenEndFails(t *testing.T) {
	t.Parallel()
	r := streaming(mock.TextChunks(`{"a":1}`, ` sonra {"b":`))

	out, err := pusula.Run(context.Background(), r, pusula.Request{})

	require.NoError(t, err)
	assert.Equal(t, pusula.GotResult{Object: pusula.Object{"a": float64(1)}}, out)
}

func TestRun_InvalidRequest(t *testing.T) {
	t.Parallel()
	called := false
	r := &mock.Recommender{
		RecommendFn: func(ctx context.Context, req pusula.Request) (pusula.ChunkStream, error) {
			called = true
			return mock.TextChunks(), nil
		},
	}
	_, err := pusula.Run(context.Background(), r, pusula.Request{PH: pusula.NumberOf(15)})

	assert.ErrorIs(t, err, pusula.ErrValidation)
	assert.False(t, called)
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	t.Run("before request", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := streaming(mock.TextChunks(`{"a":1}`))

		_, err := pusula.Run(ctx, r, pusula.Request{})

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("during stream", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		first := true
		s := &mock.ChunkStream{
			NextFn: func() ([]byte, error) {
				if first {
					first = false
					return []byte(`{"a":`), nil
				}
				cancel()
				return nil, context.Canceled
			},
		}
		var published []pusula.Outcome

		_, err := pusula.Run(ctx, streaming(s), pusula.Request{}, collect(&published))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, published)
	})
}

func TestRun_PassesRequest(t *testing.T) {
	t.Parallel()
	var got pusula.Request
	r := &mock.Recommender{
		RecommendFn: func(ctx context.Context, req pusula.Request) (pusula.ChunkStream, error) {
			got = req
			return mock.TextChunks(`{}`), nil
		},
	}
	req := pusula.Request{Province: "Konya", Season: "ilkbahar"}

	out, err := pusula.Run(context.Background(), r, req)

	require.NoError(t, err)
	assert.Equal(t, req, got)
	assert.Equal(t, pusula.GotResult{Object: pusula.Object{}}, out)
}
