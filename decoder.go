package pusula

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecoderState indicates the current state of a Decoder.
type DecoderState int

const (
	DecoderIdle      DecoderState = iota // No chunk has arrived yet.
	DecoderStreaming                     // Accepting chunks.
	DecoderErrored                       // An error object was decoded. Terminal.
	DecoderDone                          // OnStreamEnd ran without an error. Terminal.
)

func (s DecoderState) terminal() bool {
	return s == DecoderErrored || s == DecoderDone
}

// Decoder recovers a JSON object from a text stream that grows one chunk
// at a time. Each chunk is appended to the accumulated text, which is
// normalized and parsed as a whole; the best object found so far is
// reported as an Outcome.
//
// A Decoder serves exactly one response stream. It is not safe for
// concurrent use; create a new one for every request.
type Decoder struct {
	text   strings.Builder
	utf8   *transform.Writer
	state  DecoderState
	latest Object
}

// NewDecoder returns an idle Decoder ready for the first chunk.
func NewDecoder() *Decoder {
	d := &Decoder{}
	// The transformer holds back a multi-byte sequence split across chunks
	// until the rest of it arrives, and drops a leading byte order mark.
	d.utf8 = transform.NewWriter(&d.text, unicode.UTF8BOM.NewDecoder())
	return d
}

// OnChunk appends raw to the accumulated text and attempts a decode.
// It returns Halted once the decoder is in a terminal state.
func (d *Decoder) OnChunk(raw []byte) Outcome {
	if d.state.terminal() {
		return Halted{}
	}
	d.state = DecoderStreaming
	// Neither the builder nor the UTF-8 transformer can fail: invalid
	// bytes are replaced with U+FFFD.
	_, _ = d.utf8.Write(raw)
	return d.attempt()
}

// OnStreamEnd flushes any incomplete trailing bytes and runs one final
// decode over the complete text. A result found here supersedes every
// earlier one. If nothing parses, the last decoded object is kept.
func (d *Decoder) OnStreamEnd() Outcome {
	if d.state.terminal() {
		return Halted{}
	}
	_ = d.utf8.Close()
	out := d.attempt()
	if !d.state.terminal() {
		d.state = DecoderDone
	}
	return out
}

// State returns the current decoder state.
func (d *Decoder) State() DecoderState {
	return d.state
}

// Latest returns the most recently decoded object, result or error.
func (d *Decoder) Latest() (Object, bool) {
	return d.latest, d.latest != nil
}

// Text returns the accumulated text decoded so far.
func (d *Decoder) Text() string {
	return d.text.String()
}

func (d *Decoder) attempt() Outcome {
	candidate, ok := Normalize(d.text.String())
	if !ok {
		return NoCandidate{}
	}
	obj, ok := parseObject(candidate)
	if !ok {
		return ParseFailed{}
	}
	d.latest = obj
	if obj.IsError() {
		d.state = DecoderErrored
		return GotError{Object: obj}
	}
	return GotResult{Object: obj}
}

// parseObject parses s as a JSON object. Arrays, scalars and null are
// rejected along with malformed input.
func parseObject(s string) (Object, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Object(m), true
}
