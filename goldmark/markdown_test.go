package goldmark_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/pusula"
	"github.com/fwojciec/pusula/goldmark"
	"github.com/fwojciec/pusula/markdown"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

// trimLines drops the padding lipgloss adds to wrapped lines.
func trimLines(s string) []string {
	lines := strings.Split(stripANSI(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func TestMain(m *testing.M) {
	// Force ANSI color output so styled elements produce visible escape
	// codes that we can assert against.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()

	theme := pusula.DefaultTheme()

	t.Run("empty input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", goldmark.Render("", 80, theme))
	})

	t.Run("plain paragraph", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("Toprak analizi önerilir", 80, theme)
		assert.Equal(t, []string{"Toprak analizi önerilir"}, trimLines(result))
	})

	t.Run("title and section headings are styled differently", func(t *testing.T) {
		t.Parallel()
		title := goldmark.Render("# Nohut", 80, theme)
		section := goldmark.Render("## Nohut", 80, theme)
		plain := goldmark.Render("Nohut", 80, theme)
		assert.Equal(t, "Nohut", strings.TrimSpace(stripANSI(title)))
		assert.NotEqual(t, title, section)
		assert.NotEqual(t, title, plain)
		assert.NotEqual(t, section, plain)
	})

	t.Run("emphasis", func(t *testing.T) {
		t.Parallel()
		bold := goldmark.Render("**78% Güven**", 80, theme)
		italic := goldmark.Render("*API hatası*", 80, theme)
		assert.Contains(t, stripANSI(bold), "78% Güven")
		assert.Contains(t, stripANSI(italic), "API hatası")
		assert.NotEqual(t, stripANSI(bold), bold)
	})

	t.Run("bullet list", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("- Arpa\n- Nohut\n- Mercimek", 80, theme)
		assert.Equal(t, []string{"• Arpa", "• Nohut", "• Mercimek"}, trimLines(result))
	})

	t.Run("ordered list keeps start number", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("3. toprak işleme\n4. ekim", 80, theme)
		assert.Equal(t, []string{"3. toprak işleme", "4. ekim"}, trimLines(result))
	})

	t.Run("nested list", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("- Gübreleme\n  - Azot\n  - Fosfor", 80, theme)
		assert.Equal(t, []string{"• Gübreleme", "  • Azot", "  • Fosfor"}, trimLines(result))
	})

	t.Run("list item continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- ekimden önce toprak nemini ölç ve gerekirse can suyu vererek çimlenmeyi garanti altına al"
		lines := trimLines(goldmark.Render(src, 30, theme))
		require.Greater(t, len(lines), 1)
		assert.True(t, strings.HasPrefix(lines[0], "• "))
		for _, line := range lines[1:] {
			if line != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("link shows text and URL", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("[Daha fazla bilgi](<https://ai.google.dev/gemini-api/docs/rate-limits>)", 80, theme)
		assert.Contains(t, stripANSI(result), "Daha fazla bilgi (https://ai.google.dev/gemini-api/docs/rate-limits)")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "buğday arpa yulaf çavdar mısır nohut mercimek fasulye ayçiçeği kanola pamuk"
		lines := trimLines(goldmark.Render(long, 30, theme))
		assert.Greater(t, len(lines), 1)
		for _, l := range lines {
			assert.LessOrEqual(t, lipgloss.Width(l), 30)
		}
	})

	t.Run("blocks are separated by blank lines", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("# Arpa\n\n## Alternatif Ürünler\n\n- Buğday", 80, theme)
		assert.Equal(t, []string{"Arpa", "", "Alternatif Ürünler", "", "• Buğday"}, trimLines(result))
	})

	t.Run("code block is printed verbatim", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("```json\n{\"a\": 1}\n```", 10, theme)
		assert.Equal(t, []string{`{"a": 1}`}, trimLines(result))
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("üst\n\n---\n\nalt", 80, theme)
		assert.Contains(t, stripANSI(result), "─")
	})

	t.Run("width zero defaults to 80", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("merhaba dünya", 0, theme)
		assert.Equal(t, []string{"merhaba dünya"}, trimLines(result))
	})
}

func TestRender_ComposedReport(t *testing.T) {
	t.Parallel()
	conf := 64.0
	report := markdown.Result(pusula.Recommendation{
		PrimaryCrop:  "Ayçiçeği",
		Confidence:   &conf,
		Alternatives: []string{"Mısır"},
		Risks:        []string{"*Orobanş* riski"},
	})

	lines := trimLines(goldmark.Render(report, 60, pusula.DefaultTheme()))

	assert.Equal(t, []string{
		"Ayçiçeği",
		"",
		"64% Güven",
		"",
		"Alternatif Ürünler",
		"",
		"• Mısır",
		"",
		"Dikkat Edilmesi Gerekenler",
		"",
		"• *Orobanş* riski",
	}, lines)
}
