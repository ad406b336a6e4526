package pusula

import (
	"regexp"
	"strings"
)

var (
	leadingLangFence = regexp.MustCompile("(?i)^```json\\s*")
	leadingFence     = regexp.MustCompile("^```\\s*")
	trailingFence    = regexp.MustCompile("\\s*```$")
)

// Normalize strips Markdown code fences and surrounding whitespace from
// the accumulated response text and returns the substring most likely to
// hold the JSON object. It reports false when no candidate can be formed
// yet. Normalize does not check that the candidate is valid JSON.
func Normalize(text string) (string, bool) {
	s := strings.TrimSpace(text)
	s = leadingLangFence.ReplaceAllString(s, "")
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s, true
	}

	// Prose around the object: take the widest brace-delimited span.
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return "", false
	}
	return s[start : end+1], true
}
