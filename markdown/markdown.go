// Package markdown composes Markdown reports from recommendation
// outcomes. The output is plain CommonMark; terminals render it with the
// goldmark package and files store it as is.
package markdown

import (
	"strconv"
	"strings"

	"github.com/fwojciec/pusula"
)

// Section headings, in display order.
const (
	HeadingAlternatives  = "Alternatif Ürünler"
	HeadingReasons       = "Öneri Gerekçeleri"
	HeadingRisks         = "Dikkat Edilmesi Gerekenler"
	HeadingQuickActions  = "Önerilen Aksiyonlar"
	HeadingMissingInputs = "Eksik Bilgiler"
	HeadingAssumptions   = "Varsayımlar"
	HeadingError         = "Hata"
)

// Missing inputs are only listed when there are few of them; a long list
// means the form was mostly empty and the hint stops being useful.
const (
	maxMissingInputs   = 10
	shownMissingInputs = 5
)

// Outcome composes the report for a published outcome. Outcomes that
// carry no object produce "".
func Outcome(o pusula.Outcome) string {
	switch v := o.(type) {
	case pusula.GotResult:
		return Result(pusula.RecommendationFrom(v.Object))
	case pusula.GotError:
		return Error(v.Object)
	default:
		return ""
	}
}

// Result composes the report for a (possibly partial) recommendation.
// Sections without content are left out.
func Result(r pusula.Recommendation) string {
	var b strings.Builder
	if r.PrimaryCrop != "" {
		b.WriteString("# " + escape(r.PrimaryCrop) + "\n\n")
	}
	if r.Confidence != nil {
		b.WriteString("**" + Percent(*r.Confidence) + " Güven**\n\n")
	}
	list(&b, HeadingAlternatives, r.Alternatives)
	list(&b, HeadingReasons, r.Reasons)
	list(&b, HeadingRisks, r.Risks)
	list(&b, HeadingQuickActions, r.QuickActions)
	if n := len(r.MissingInputs); n > 0 && n < maxMissingInputs {
		shown := r.MissingInputs[:min(n, shownMissingInputs)]
		b.WriteString("## " + HeadingMissingInputs + "\n\n")
		b.WriteString("Daha doğru öneri için şu bilgileri ekleyebilirsiniz: ")
		b.WriteString(escape(strings.Join(shown, ", ")))
		if n > shownMissingInputs {
			b.WriteString("...")
		}
		b.WriteString("\n\n")
	}
	list(&b, HeadingAssumptions, r.Assumptions)
	return strings.TrimRight(b.String(), "\n")
}

// Error composes the error panel for an error object.
func Error(o pusula.Object) string {
	var b strings.Builder
	b.WriteString("# " + HeadingError + "\n\n")
	msg := o.Message()
	if msg == "" {
		msg = "Bir hata oluştu"
	}
	b.WriteString(escape(msg))
	if code := o.Code(); code != "" && code != pusula.TransportErrorCode {
		b.WriteString("\n\n*" + escape(code) + "*")
	}
	if d := o.Details(); d != "" {
		b.WriteString("\n\n[Daha fazla bilgi](<" + d + ">)")
	}
	return b.String()
}

// Percent formats a confidence value the way the web client shows it.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func list(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("## " + heading + "\n\n")
	for _, it := range items {
		b.WriteString("- " + escape(it) + "\n")
	}
	b.WriteString("\n")
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	"\r\n", " ",
	"\n", " ",
)

// escape keeps model-generated text from being read as Markdown syntax.
func escape(s string) string {
	return escaper.Replace(strings.TrimSpace(s))
}
