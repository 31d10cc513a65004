// Package title produces the comparison form of episode and series titles.
package title

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical comparison form of s: NFC-composed,
// lower-cased, punctuation removed, whitespace collapsed and trimmed.
// Letters, digits and underscores survive. Normalize is idempotent.
func Normalize(s string) string {
	s = strings.ToLower(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return norm.NFC.String(strings.Join(strings.Fields(b.String()), " "))
}

// Equal reports whether a and b are normalized-equal.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Tokens returns the whitespace-delimited tokens of the normalized form.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// Clean strips the stray quoting some providers leave around episode
// titles, e.g. "\"By Air, Land and Sea\"".
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}
