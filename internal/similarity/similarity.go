// Package similarity ranks candidate strings against reference sets.
package similarity

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Match is the best reference found for a candidate.
type Match struct {
	Target string
	Index  int
	Rating float64
}

// Scorer finds the reference most similar to a candidate. Ratings are in [0,1].
type Scorer interface {
	BestMatch(candidate string, references []string) Match
}

// unitCost treats a substitution as a single edit so that the distance never
// exceeds the length of the longer string.
var unitCost = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Levenshtein rates strings by normalized edit distance:
// 1 - distance / max(len(a), len(b)).
type Levenshtein struct {
	// CaseSensitive disables lower-casing before comparison.
	CaseSensitive bool
}

// NewLevenshtein creates a case-insensitive edit distance scorer.
func NewLevenshtein() *Levenshtein {
	return &Levenshtein{}
}

// Rate returns the similarity of two strings.
func (l *Levenshtein) Rate(a, b string) float64 {
	if !l.CaseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}

	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}

	distance := levenshtein.DistanceForStrings(ra, rb, unitCost)
	return 1 - float64(distance)/float64(longest)
}

// BestMatch returns the highest rated reference. The earliest reference wins
// ties. An empty reference set yields Index -1 and Rating 0.
func (l *Levenshtein) BestMatch(candidate string, references []string) Match {
	best := Match{Index: -1}
	for i, ref := range references {
		rating := l.Rate(candidate, ref)
		if best.Index == -1 || rating > best.Rating {
			best = Match{Target: ref, Index: i, Rating: rating}
		}
	}
	return best
}
