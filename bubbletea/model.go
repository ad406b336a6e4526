package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/pusula"
	"github.com/fwojciec/pusula/goldmark"
	"github.com/fwojciec/pusula/markdown"
)

var _ tea.Model = Model{}

const (
	msgLoading  = "Analiz ediliyor..."
	msgNoResult = "Yanıtta okunabilir bir sonuç bulunamadı."
)

// Model is the Bubble Tea model for the recommendation viewer. It starts
// the session on Init and shows a spinner until the first result
// arrives, then the latest result as it grows. An error replaces any
// result shown so far.
type Model struct {
	// Viewport is the scrollable report area. Exported for test access.
	Viewport viewport.Model
	// Spinner is the loading indicator. Exported for test access.
	Spinner spinner.Model

	run    RunFunc
	theme  pusula.Theme
	styles Styles

	ctx       context.Context
	cancel    context.CancelFunc
	outcomeCh chan pusula.Outcome
	doneCh    chan DoneMsg

	outcome pusula.Outcome
	running bool
	err     error
	ready   bool
}

// New creates a Model that runs the given session once started.
func New(run RunFunc, theme pusula.Theme) Model {
	styles := NewStyles(theme)
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Accent),
	)
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		Spinner:   sp,
		run:       run,
		theme:     theme,
		styles:    styles,
		ctx:       ctx,
		cancel:    cancel,
		outcomeCh: make(chan pusula.Outcome, 64),
		doneCh:    make(chan DoneMsg, 1),
		running:   true,
	}
}

// Running returns whether the session is still streaming.
func (m Model) Running() bool { return m.running }

// Err returns the error the session ended with, if any. Cancellation is
// not reported.
func (m Model) Err() error { return m.err }

// Outcome returns the outcome currently on display. Once the session has
// ended it is the outcome the session returned.
func (m Model) Outcome() pusula.Outcome { return m.outcome }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		startSession(m.run, m.ctx, m.outcomeCh, m.doneCh),
		listenForOutcome(m.outcomeCh, m.doneCh),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.running && m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		if m.outcome == nil {
			m.Viewport.SetContent(m.renderContent())
		}
		return m, cmd

	case OutcomeMsg:
		m.outcome = msg.Outcome
		m.Viewport.SetContent(m.renderContent())
		return m, listenForOutcome(m.outcomeCh, m.doneCh)

	case DoneMsg:
		m.running = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		if msg.Outcome != nil {
			m.outcome = msg.Outcome
		}
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.Viewport.SetContent(m.renderContent())
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Başlatılıyor..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	statusHeight := 1
	borderHeight := 1 // newline between sections
	vpHeight := msg.Height - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	return m
}

// renderContent draws the report area. A session error or an error
// object takes the whole area; results are never shown next to one.
func (m Model) renderContent() string {
	width := m.Viewport.Width
	if m.err != nil {
		return m.errorPanel(fmt.Sprintf("# %s\n\n%v", markdown.HeadingError, m.err), width)
	}
	switch o := m.outcome.(type) {
	case pusula.GotError:
		return m.errorPanel(markdown.Error(o.Object), width)
	case pusula.GotResult:
		return goldmark.Render(markdown.Result(pusula.RecommendationFrom(o.Object)), width, m.theme)
	}
	if m.running {
		return m.Spinner.View() + " " + msgLoading
	}
	return m.styles.Muted.Render(msgNoResult)
}

func (m Model) errorPanel(source string, width int) string {
	// Border and padding take two columns on each side.
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	body := goldmark.Render(source, inner, m.theme)
	return m.styles.ErrorPanel.Width(inner + 2).Render(body)
}

func (m Model) statusLine() string {
	hint := m.styles.Muted.Render(" · q ile çık")
	if m.err != nil {
		return m.styles.Error.Render("✗ Hata") + hint
	}
	switch o := m.outcome.(type) {
	case pusula.GotError:
		label := markdown.HeadingError
		if code, ok := o.Object[pusula.ErrorKey].(string); ok && code != "" {
			label = code
		}
		return m.styles.Error.Render("✗ "+label) + hint
	case pusula.GotResult:
		crop := pusula.RecommendationFrom(o.Object).PrimaryCrop
		if m.running {
			return m.Spinner.View() + " " + m.styles.Warning.Render("Kısmi sonuç") + hint
		}
		status := m.styles.Success.Render("✓ Tamamlandı")
		if crop != "" {
			status += " " + m.styles.Crop.Render(crop)
		}
		return status + hint
	}
	if m.running {
		return m.styles.Muted.Render(msgLoading) + hint
	}
	return m.styles.Muted.Render("Sonuç yok") + hint
}

// startSession runs the session in a goroutine and signals completion.
func startSession(run RunFunc, ctx context.Context, outcomeCh chan<- pusula.Outcome, doneCh chan<- DoneMsg) tea.Cmd {
	return func() tea.Msg {
		out, err := run(ctx, func(o pusula.Outcome) {
			select {
			case outcomeCh <- o:
			case <-ctx.Done():
			}
		})
		close(outcomeCh)
		doneCh <- DoneMsg{Outcome: out, Err: err}
		return nil
	}
}

// listenForOutcome waits for the next outcome from the channel. When the
// channel closes, it reads the final message from doneCh.
func listenForOutcome(ch <-chan pusula.Outcome, doneCh <-chan DoneMsg) tea.Cmd {
	return func() tea.Msg {
		o, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return OutcomeMsg{Outcome: o}
	}
}
