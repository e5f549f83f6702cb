package ledger

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeDescription canonicalizes a free-text description for duplicate
// detection: accents stripped, case folded, whitespace collapsed.
func NormalizeDescription(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, s)
	if err != nil {
		normalized = s
	}
	normalized = cases.Fold().String(normalized)
	return strings.Join(strings.Fields(normalized), " ")
}
