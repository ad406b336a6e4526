package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/fwojciec/pusula"
	"google.golang.org/genai"
)

// stream implements [pusula.ChunkStream] by wrapping the genai SDK's
// streaming iterator. Each response contributes its text parts as one
// chunk; responses without text are skipped.
type stream struct {
	ctx    context.Context
	pull   func() (*genai.GenerateContentResponse, error, bool)
	stop   func()
	done   bool
	closed bool
}

// Interface compliance check.
var _ pusula.ChunkStream = (*stream)(nil)

func newStream(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(seq)
	return &stream{
		ctx:  ctx,
		pull: next,
		stop: stop,
	}
}

func (s *stream) Next() ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("gemini: %w", pusula.ErrStreamClosed)
	}
	for !s.done {
		resp, err, ok := s.pull()
		if !ok {
			s.done = true
			break
		}
		if err != nil {
			s.done = true
			if ctxErr := s.ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return encodeError(err), nil
		}
		if text := responseText(resp); text != "" {
			return []byte(text), nil
		}
	}
	return nil, io.EOF
}

func (s *stream) Close() error {
	s.closed = true
	s.stop()
	return nil
}

// responseText concatenates the non-thought text parts of the first
// candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// errorObject classifies an SDK failure into the error object the client
// displays.
func errorObject(err error) pusula.Object {
	msg := err.Error()
	code := 0
	status := ""
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
		status = apiErr.Status
	}
	switch {
	case code == 429 || status == "RESOURCE_EXHAUSTED" ||
		strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota"):
		return pusula.Object{
			pusula.ErrorKey: CodeQuota,
			"message":       "Gemini API kullanım limitiniz dolmuş. Lütfen planınızı ve faturalama detaylarınızı kontrol edin.",
			"details":       rateLimitsURL,
		}
	case code == 401 || status == "UNAUTHENTICATED" ||
		strings.Contains(msg, "401") || strings.Contains(msg, "UNAUTHENTICATED"):
		return pusula.Object{
			pusula.ErrorKey: CodeAuth,
			"message":       "Geçersiz veya eksik API key. Lütfen GEMINI_API_KEY değişkenini kontrol edin.",
		}
	default:
		return pusula.Object{
			pusula.ErrorKey: CodeGeneric,
			"message":       "Bir hata oluştu: " + msg,
		}
	}
}

func encodeError(err error) []byte {
	// A map of strings always marshals.
	b, _ := json.Marshal(errorObject(err))
	return b
}
