package pusula

import (
	"context"
	"errors"
	"io"
)

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	onOutcome func(Outcome)
}

// WithOutcomeHandler sets a callback that receives every published
// outcome (GotResult or GotError) in order. If nil or not set, outcomes
// are only available through Run's return value.
func WithOutcomeHandler(h func(Outcome)) RunOption {
	return func(c *runConfig) {
		c.onOutcome = h
	}
}

func (c *runConfig) publish(o Outcome) {
	if c.onOutcome != nil {
		c.onOutcome(o)
	}
}

// Run submits req to the recommender and decodes the response stream
// with a fresh Decoder. Every GotResult and GotError is forwarded to the
// outcome handler as it happens. Run returns the final published
// outcome, or the last unpublished one when the stream never yielded an
// object.
//
// A GotError ends the session: Run stops reading and returns it. Failures
// to open or read the stream are reported as a GotError carrying
// TransportError, not as a Go error. The returned error is non-nil only
// when req fails validation or ctx is done.
func Run(ctx context.Context, r Recommender, req Request, opts ...RunOption) (Outcome, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err := r.Recommend(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return cfg.fail(err), nil
	}
	defer stream.Close()

	dec := NewDecoder()
	var last Outcome
	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return cfg.fail(err), nil
		}

		out := dec.OnChunk(chunk)
		if !Published(out) {
			continue
		}
		cfg.publish(out)
		last = out
		if _, ok := out.(GotError); ok {
			return out, nil
		}
	}

	out := dec.OnStreamEnd()
	if Published(out) {
		cfg.publish(out)
		return out, nil
	}
	if last != nil {
		return last, nil
	}
	return out, nil
}

func (c *runConfig) fail(err error) Outcome {
	out := GotError{Object: TransportError(err)}
	c.publish(out)
	return out
}
