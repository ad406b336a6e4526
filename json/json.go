// Package json persists [pusula.Record] values as versioned JSON files.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/pusula"
)

// envelope is the v1 wire format for a persisted record.
type envelope struct {
	Version   int            `json:"version"`
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Source    string         `json:"source,omitempty"`
	Request   pusula.Request `json:"request"`
	Outcome   outcomeDTO     `json:"outcome"`
}

// outcomeDTO is the JSON representation of an Outcome with a type
// discriminator.
type outcomeDTO struct {
	Type   string         `json:"type"`
	Object map[string]any `json:"object,omitempty"`
}

const (
	outcomeResult      = "result"
	outcomeError       = "error"
	outcomeNoCandidate = "no_candidate"
	outcomeParseFailed = "parse_failed"
)

// MarshalRecord serializes a Record to JSON in v1 envelope format.
func MarshalRecord(r pusula.Record) ([]byte, error) {
	out, err := marshalOutcome(r.Outcome)
	if err != nil {
		return nil, err
	}
	env := envelope{
		Version:   1,
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Source:    r.Source,
		Request:   r.Request,
		Outcome:   out,
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalRecord deserializes a Record from JSON in v1 envelope format.
func UnmarshalRecord(data []byte) (pusula.Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return pusula.Record{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return pusula.Record{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	out, err := unmarshalOutcome(env.Outcome)
	if err != nil {
		return pusula.Record{}, err
	}
	return pusula.Record{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		Source:    env.Source,
		Request:   env.Request,
		Outcome:   out,
	}, nil
}

// Save writes a Record to a JSON file, creating parent directories as needed.
func Save(path string, r pusula.Record) error {
	data, err := MarshalRecord(r)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Record from a JSON file.
func Load(path string) (pusula.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pusula.Record{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalRecord(data)
}

func marshalOutcome(o pusula.Outcome) (outcomeDTO, error) {
	switch v := o.(type) {
	case pusula.GotResult:
		return outcomeDTO{Type: outcomeResult, Object: v.Object}, nil
	case pusula.GotError:
		return outcomeDTO{Type: outcomeError, Object: v.Object}, nil
	case pusula.NoCandidate:
		return outcomeDTO{Type: outcomeNoCandidate}, nil
	case pusula.ParseFailed:
		return outcomeDTO{Type: outcomeParseFailed}, nil
	default:
		return outcomeDTO{}, fmt.Errorf("unsupported outcome type: %T", o)
	}
}

func unmarshalOutcome(dto outcomeDTO) (pusula.Outcome, error) {
	switch dto.Type {
	case outcomeResult:
		return pusula.GotResult{Object: object(dto.Object)}, nil
	case outcomeError:
		return pusula.GotError{Object: object(dto.Object)}, nil
	case outcomeNoCandidate:
		return pusula.NoCandidate{}, nil
	case outcomeParseFailed:
		return pusula.ParseFailed{}, nil
	default:
		return nil, fmt.Errorf("unknown outcome type: %q", dto.Type)
	}
}

// object keeps an empty decoded object distinct from a missing one.
func object(m map[string]any) pusula.Object {
	if m == nil {
		return pusula.Object{}
	}
	return pusula.Object(m)
}
