// Package bubbletea provides a Bubble Tea TUI that shows a crop
// recommendation while it streams in.
package bubbletea

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/pusula"
)

// RunFunc runs one recommendation session. The onOutcome callback is
// called for each published outcome. The function blocks until the
// session ends or the context is cancelled, and returns what pusula.Run
// returns.
type RunFunc func(ctx context.Context, onOutcome func(pusula.Outcome)) (pusula.Outcome, error)

// Recommend returns a RunFunc that asks r for a recommendation for req.
func Recommend(r pusula.Recommender, req pusula.Request) RunFunc {
	return func(ctx context.Context, onOutcome func(pusula.Outcome)) (pusula.Outcome, error) {
		return pusula.Run(ctx, r, req, pusula.WithOutcomeHandler(onOutcome))
	}
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits and returns the final model. When ctx is cancelled, the
// program quits.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	final, err := p.Run()
	if err != nil {
		return m, err
	}
	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("bubbletea: unexpected final model %T", final)
	}
	return fm, nil
}

// OutcomeMsg delivers a published outcome to the model.
type OutcomeMsg struct {
	Outcome pusula.Outcome
}

// DoneMsg signals that the session has ended.
type DoneMsg struct {
	Outcome pusula.Outcome
	Err     error
}
