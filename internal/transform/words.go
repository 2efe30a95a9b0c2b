package transform

import (
	"strings"
	"unicode"
)

// isWordSeparator reports whether r separates words. Besides Unicode
// white space it accepts the ASCII file, group, record and unit
// separators (U+001C to U+001F).
func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// splitWords splits text around runs of separators, dropping empty words.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, isWordSeparator)
}
