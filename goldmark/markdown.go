// Package goldmark renders recommendation reports to ANSI-styled terminal
// output using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/fwojciec/pusula"

// Render parses a Markdown report and returns ANSI-styled terminal
// output. Paragraphs and list items are word-wrapped to width; a
// non-positive width means 80 columns.
func Render(source string, width int, theme pusula.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
