package classification

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/similarity"
	"github.com/Veraticus/tally/internal/taxonomy"
)

// Strategy confidences.
const (
	exactConfidence  = 1.0
	fuzzyConfidence  = 0.7
	prefixConfidence = 0.8
	memoryConfidence = 0.7
	keywordCeiling   = 0.8
	keywordBase      = 0.3

	minFuzzyRating = 0.6
	prefixLength   = 2
)

// Request is one account to classify.
type Request struct {
	Memory *Memory
	Code   string
	Name   string
	// Folded is the name lower-cased with diacritics removed.
	Folded string
}

// Strategy proposes candidate classifications for an account. A decisive
// result ends the chain and is returned without alternatives.
type Strategy interface {
	Name() string
	Candidates(req Request) (candidates model.Classifications, decisive bool)
}

// ExactCode matches the code against the standard chart of accounts.
type ExactCode struct {
	Taxonomy *taxonomy.Taxonomy
}

// Name implements Strategy.
func (ExactCode) Name() string { return "exact_code" }

// Candidates implements Strategy.
func (s ExactCode) Candidates(req Request) (model.Classifications, bool) {
	acct, ok := s.Taxonomy.Lookup(req.Code)
	if !ok {
		return nil, false
	}
	return model.Classifications{
		fromAccount(acct, exactConfidence, fmt.Sprintf("Exact match for account code %s", acct.Code)),
	}, true
}

// FuzzyCode rates the code against every standard code.
type FuzzyCode struct {
	Taxonomy *taxonomy.Taxonomy
	Scorer   similarity.Scorer
}

// Name implements Strategy.
func (FuzzyCode) Name() string { return "fuzzy_code" }

// Candidates implements Strategy.
func (s FuzzyCode) Candidates(req Request) (model.Classifications, bool) {
	if req.Code == "" {
		return nil, false
	}
	match := s.Scorer.BestMatch(req.Code, s.Taxonomy.Codes())
	if match.Index < 0 || match.Rating < minFuzzyRating {
		return nil, false
	}
	acct, ok := s.Taxonomy.Lookup(match.Target)
	if !ok {
		return nil, false
	}
	return model.Classifications{
		fromAccount(acct, fuzzyConfidence,
			fmt.Sprintf("Account code %s is similar to %s (%.2f)", req.Code, acct.Code, match.Rating)),
	}, false
}

// CodePrefix proposes every standard account sharing the code's leading digits.
type CodePrefix struct {
	Taxonomy *taxonomy.Taxonomy
}

// Name implements Strategy.
func (CodePrefix) Name() string { return "code_prefix" }

// Candidates implements Strategy.
func (s CodePrefix) Candidates(req Request) (model.Classifications, bool) {
	runes := []rune(req.Code)
	if len(runes) < prefixLength {
		return nil, false
	}
	prefix := string(runes[:prefixLength])

	var out model.Classifications
	for _, acct := range s.Taxonomy.Chart() {
		if strings.HasPrefix(acct.Code, prefix) {
			out = append(out, fromAccount(acct, prefixConfidence,
				fmt.Sprintf("Account code %s shares prefix %s with %s", req.Code, prefix, acct.Code)))
		}
	}
	return out, false
}

// RunMemory reuses the classification of an earlier account in the same run
// whose name shares a word with this one.
type RunMemory struct{}

// Name implements Strategy.
func (RunMemory) Name() string { return "run_memory" }

// Candidates implements Strategy.
func (RunMemory) Candidates(req Request) (model.Classifications, bool) {
	if req.Memory == nil {
		return nil, false
	}
	prior, ok := req.Memory.FirstSharingWord(req.Name)
	if !ok {
		return nil, false
	}
	c := prior.Classification
	c.Confidence = memoryConfidence
	c.Reasoning = fmt.Sprintf("Shares a word with %s %q classified earlier in this run", prior.Code, prior.Name)
	return model.Classifications{c}, false
}

// Keywords walks the taxonomy and scores each leaf by the share of its
// keywords found in the name.
type Keywords struct {
	Taxonomy *taxonomy.Taxonomy
}

// Name implements Strategy.
func (Keywords) Name() string { return "keywords" }

// Candidates implements Strategy.
func (s Keywords) Candidates(req Request) (model.Classifications, bool) {
	if req.Folded == "" {
		return nil, false
	}

	var out model.Classifications
	s.Taxonomy.Walk(func(primary, secondary string, leaf taxonomy.Leaf) {
		var matched []string
		for _, kw := range leaf.Keywords {
			if strings.Contains(req.Folded, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			return
		}
		out = append(out, model.AccountClassification{
			Primary:    primary,
			Secondary:  secondary,
			Tertiary:   leaf.Name,
			Confidence: min(keywordCeiling, float64(len(matched))/float64(len(leaf.Keywords))+keywordBase),
			Reasoning:  "Matched keywords: " + strings.Join(matched, ", "),
		})
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out, false
}

func fromAccount(acct taxonomy.Account, confidence float64, reasoning string) model.AccountClassification {
	return model.AccountClassification{
		Primary:    acct.Primary,
		Secondary:  acct.Secondary,
		Tertiary:   acct.Tertiary,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
}
