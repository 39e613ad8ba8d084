package chunkers

import (
	"regexp"
	"strings"
)

var (
	horizontalWhitespace = regexp.MustCompile(`[ \t]+`)
	spacePaddedNewline   = regexp.MustCompile(` *\n *`)
	newlineRun           = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText collapses whitespace runs to single spaces, converts CR/CRLF
// to LF, drops control characters, reduces three-or-more newlines to a
// paragraph break, and trims the result. Empty input yields empty output.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	// Unify line endings before anything else
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Drop control characters, keeping newlines and tabs for the collapse below
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)

	text = horizontalWhitespace.ReplaceAllString(text, " ")
	text = spacePaddedNewline.ReplaceAllString(text, "\n")
	text = newlineRun.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
