package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text, folds accents, replaces everything but letters,
// digits, underscores, hyphens and spaces with a space and collapses runs of
// whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ToLower(text)

	if folded, _, err := transform.String(foldAccents, text); err == nil {
		text = folded
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, text)

	return strings.Join(strings.Fields(text), " ")
}
