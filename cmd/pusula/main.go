// Command pusula asks for a crop recommendation and shows it while the
// answer streams in.
//
// Usage:
//
//	GEMINI_API_KEY=gk-... pusula [flags] < form.json
//	pusula -server http://localhost:5000 -input form.json
//
// Flags:
//
//	-input string    Path to the form JSON (default: stdin)
//	-server string   Base URL of a pusulad server (default: call Gemini directly)
//	-model string    Gemini model ID (default: gemma-3-27b-it)
//	-api-key string  Gemini API key (overrides GEMINI_API_KEY)
//	-save string     Path to save the finished run as JSON
//	-plain           Print the final report instead of starting the TUI
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fwojciec/pusula"
	bt "github.com/fwojciec/pusula/bubbletea"
	"github.com/fwojciec/pusula/goldmark"
	pusulajson "github.com/fwojciec/pusula/json"
	"github.com/fwojciec/pusula/markdown"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

const reportWidth = 80

var errInterrupted = errors.New("interrupted before the answer was complete")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pusula: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		inputPath = flag.String("input", "", "Path to the form JSON (default: stdin)")
		server    = flag.String("server", "", "Base URL of a pusulad server")
		model     = flag.String("model", "", "Gemini model ID")
		apiKey    = flag.String("api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
		savePath  = flag.String("save", "", "Path to save the finished run as JSON")
		plain     = flag.Bool("plain", false, "Print the final report instead of starting the TUI")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Resolve backend. Env vars are read here and passed as values.
	b, err := resolveBackend(ctx, *server, *model, *apiKey, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	req, err := loadRequest(*inputPath, os.Stdin)
	if err != nil {
		return err
	}

	tty := isTerminal(os.Stdout)
	var out pusula.Outcome
	if *plain || !tty {
		out, err = runPlain(ctx, b.recommender, req, os.Stdout, tty)
	} else {
		out, err = runTUI(ctx, b.recommender, req)
	}
	if err != nil {
		return err
	}

	if *savePath != "" {
		if err := saveRecord(*savePath, b.source, req, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run saved to %s\n", *savePath)
	}

	if e, ok := out.(pusula.GotError); ok {
		return fmt.Errorf("recommendation failed: %s", e.Object.Code())
	}
	return nil
}

// loadRequest reads the form JSON from path, or from stdin when path is
// empty or "-".
func loadRequest(path string, stdin io.Reader) (pusula.Request, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return pusula.Request{}, fmt.Errorf("read input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return decodeRequest(r)
}

func decodeRequest(r io.Reader) (pusula.Request, error) {
	var req pusula.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return pusula.Request{}, fmt.Errorf("read input: no form data")
		}
		return pusula.Request{}, fmt.Errorf("read input: %w", err)
	}
	req.Sanitize()
	return req, nil
}

// runPlain runs the session to completion and writes the final report to
// w. The report is rendered for the terminal when styled is true and
// written as Markdown otherwise.
func runPlain(ctx context.Context, r pusula.Recommender, req pusula.Request, w io.Writer, styled bool) (pusula.Outcome, error) {
	out, err := pusula.Run(ctx, r, req)
	if err != nil {
		return nil, err
	}
	report := markdown.Outcome(out)
	if report == "" {
		return out, fmt.Errorf("no recommendation found in the response")
	}
	if styled {
		report = goldmark.Render(report, reportWidth, pusula.DefaultTheme())
	}
	if _, err := fmt.Fprintln(w, report); err != nil {
		return out, fmt.Errorf("write report: %w", err)
	}
	return out, nil
}

func runTUI(ctx context.Context, r pusula.Recommender, req pusula.Request) (pusula.Outcome, error) {
	m := bt.New(bt.Recommend(r, req), pusula.DefaultTheme())
	final, err := bt.Run(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("TUI: %w", err)
	}
	if err := final.Err(); err != nil {
		return nil, err
	}
	if final.Running() {
		return nil, errInterrupted
	}
	return final.Outcome(), nil
}

func saveRecord(path, source string, req pusula.Request, out pusula.Outcome) error {
	rec := pusula.Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Request:   req,
		Outcome:   out,
	}
	if err := pusulajson.Save(path, rec); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
