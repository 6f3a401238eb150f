// Package rendering produces the printable HTML résumé and its PDF export.
package rendering

import "strings"

// EscapeHTML escapes the characters with markup meaning in text content.
// Special characters: & < > " '
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		case '"':
			result.WriteString("&quot;")
		case '\'':
			result.WriteString("&#039;")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
