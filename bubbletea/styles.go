package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/pusula"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Crop       lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	ErrorPanel lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t pusula.Theme) Styles {
	return Styles{
		Crop:    lipgloss.NewStyle().Foreground(ansiColor(t.Crop)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Warning: lipgloss.NewStyle().Foreground(ansiColor(t.Warning)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)),
		ErrorPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ansiColor(t.Error)).
			Background(ansiColor(t.ErrorBg)).
			Padding(0, 1),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
