package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every tag and attribute, escaping what remains.
var strictPolicy = bluemonday.StrictPolicy()

var (
	ansiEscapeRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	spaceRunRegex   = regexp.MustCompile(`[ \t]{2,}`)
	newlineRunRegex = regexp.MustCompile(`\n{3,}`)
)

// Text cleans a free-form field value for safe storage and redisplay.
// It removes null bytes and control sequences, strips all markup, escapes
// characters meaningful to an HTML renderer, collapses whitespace runs and
// trims the result. Newlines are preserved so multi-line messages keep
// their shape.
func Text(raw string) string {
	s := RemoveNullBytes(raw)
	s = RemoveControlSequences(s)
	s = strictPolicy.Sanitize(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRunRegex.ReplaceAllString(s, " ")
	s = newlineRunRegex.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Line cleans a single-line field value. Same as Text but any remaining
// newlines are folded into spaces, which also blocks header injection when
// the value ends up in an email subject.
func Line(raw string) string {
	s := Text(raw)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(spaceRunRegex.ReplaceAllString(s, " "))
}

// RemoveNullBytes removes null bytes that confuse downstream C-based tooling.
func RemoveNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// RemoveControlSequences removes ANSI escape sequences and control characters
// except tab, newline and carriage return.
func RemoveControlSequences(s string) string {
	s = ansiEscapeRegex.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
