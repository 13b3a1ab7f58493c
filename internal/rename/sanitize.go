// Package rename turns extracted document fields into safe, unique output
// filenames.
package rename

import (
	"regexp"
	"strings"
)

// maxComponentRunes caps each sanitized filename component.
const maxComponentRunes = 50

var (
	newlineRegexp    = regexp.MustCompile(`[\r\n]+`)
	forbiddenRegexp  = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespaceRegexp = regexp.MustCompile(`\s+`)
	underscoreRegexp = regexp.MustCompile(`_+`)
)

// Sanitize makes s safe for use as a filename component: newlines become
// spaces, forbidden characters and whitespace runs become underscores,
// underscore runs collapse, and the result is trimmed and capped at 50
// runes.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	out := newlineRegexp.ReplaceAllString(s, " ")
	out = forbiddenRegexp.ReplaceAllString(out, "_")
	out = whitespaceRegexp.ReplaceAllString(out, "_")
	out = underscoreRegexp.ReplaceAllString(out, "_")
	out = strings.Trim(out, "_")
	if runes := []rune(out); len(runes) > maxComponentRunes {
		out = string(runes[:maxComponentRunes])
	}
	return out
}
