package grid

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText folds text for keyword comparison: compatibility forms are
// unified, diacritics dropped, case lowered and whitespace collapsed.
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = whitespaceRe.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}
