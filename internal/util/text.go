package util

import (
	"strings"
	"unicode"
)

// CleanText trims s and drops control and invisible formatting characters
// (zero-width spaces, joiners, direction marks, BOM).
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsControl(r) || isInvisibleUnicode(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// HasHiddenCharacters reports whether s contains anything CleanText would
// drop other than surrounding whitespace.
func HasHiddenCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) || isInvisibleUnicode(r) {
			return true
		}
	}
	return false
}

func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // zero-width space
		'\u200C', // zero-width non-joiner
		'\u200D', // zero-width joiner
		'\u200E', // left-to-right mark
		'\u200F', // right-to-left mark
		'\u2060', // word joiner
		'\uFEFF', // BOM
		'\uFFF9', '\uFFFA', '\uFFFB':
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
