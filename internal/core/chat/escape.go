package chat

import (
	"html"
	"strings"
	"unicode"
)

// EscapeText escapes the five markup-significant characters (& < > " ') so
// senders and message bodies can be interpolated into HTML output. Escaped
// output round-trips through html.UnescapeString.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// SanitizeDisplay strips control characters from untrusted text before it is
// written to the terminal, so message content cannot smuggle ANSI escape
// sequences into the feed. Tabs become spaces; newlines are preserved.
func SanitizeDisplay(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
