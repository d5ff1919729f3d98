// Package classification maps ledger accounts onto the chart-of-accounts
// taxonomy through an ordered chain of matching strategies.
package classification

import (
	"strings"

	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/similarity"
	"github.com/Veraticus/tally/internal/taxonomy"
)

const (
	maxAlternatives    = 3
	fallbackConfidence = 0.3
	unmatchedReason    = "No classification strategy matched the account"
)

// Result is the outcome of classifying one account.
type Result struct {
	// Unmatched is set when only the fallback could classify the account.
	Unmatched    *model.UnmatchedEntry
	Alternatives model.Classifications
	Best         model.AccountClassification
}

// Uncertain reports whether the account should be reviewed by a person.
func (r Result) Uncertain() bool {
	return r.Best.Confidence < model.UncertainThreshold || len(r.Alternatives) > 0
}

// Classifier runs the strategy chain. It holds no per-run state and is safe
// for concurrent use; run state lives in the Memory passed to Classify.
type Classifier struct {
	taxonomy   *taxonomy.Taxonomy
	strategies []Strategy
}

// Option configures a Classifier.
type Option func(*classifierOptions)

type classifierOptions struct {
	scorer similarity.Scorer
}

// WithScorer replaces the code similarity scorer.
func WithScorer(scorer similarity.Scorer) Option {
	return func(o *classifierOptions) {
		if scorer != nil {
			o.scorer = scorer
		}
	}
}

// New creates a classifier with the standard strategy chain: exact code,
// fuzzy code, code prefix, run memory, then taxonomy keywords.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Classifier {
	o := classifierOptions{scorer: similarity.NewLevenshtein()}
	for _, opt := range opts {
		opt(&o)
	}

	return NewWithStrategies(tax,
		ExactCode{Taxonomy: tax},
		FuzzyCode{Taxonomy: tax, Scorer: o.scorer},
		CodePrefix{Taxonomy: tax},
		RunMemory{},
		Keywords{Taxonomy: tax},
	)
}

// NewWithStrategies creates a classifier with a custom chain.
func NewWithStrategies(tax *taxonomy.Taxonomy, strategies ...Strategy) *Classifier {
	return &Classifier{taxonomy: tax, strategies: strategies}
}

// Classify returns the best classification for an account plus up to three
// ranked alternatives. The chain is folded in order; a candidate replaces the
// current best only with a strictly greater confidence. Accounts no strategy
// matches get a low-confidence fallback and an unmatched record. Successful
// classifications are remembered in mem.
func (c *Classifier) Classify(mem *Memory, code, name string) Result {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	req := Request{
		Memory: mem,
		Code:   code,
		Name:   name,
		Folded: grid.NormalizeText(name),
	}

	var (
		best      model.AccountClassification
		collected model.Classifications
	)

	for _, s := range c.strategies {
		candidates, decisive := s.Candidates(req)
		if decisive && len(candidates) > 0 {
			best = candidates[0]
			c.remember(mem, code, name, best)
			return Result{Best: best, Alternatives: model.Classifications{}}
		}
		for _, cand := range candidates {
			if cand.Confidence > best.Confidence {
				best = cand
			}
			collected = append(collected, cand)
		}
	}

	if best.Confidence <= 0 {
		fallback := model.AccountClassification{
			Primary:    c.heuristicCategory(req.Folded),
			Secondary:  model.NeedsReview,
			Tertiary:   model.Unclassified,
			Confidence: fallbackConfidence,
			Reasoning:  "No strategy matched; primary category inferred from the account name",
		}
		alternatives := rank(collected, fallback)
		return Result{
			Best:         fallback,
			Alternatives: alternatives,
			Unmatched: &model.UnmatchedEntry{
				AccountCode:             code,
				AccountName:             name,
				Reason:                  unmatchedReason,
				PossibleClassifications: alternatives,
			},
		}
	}

	c.remember(mem, code, name, best)
	return Result{Best: best, Alternatives: rank(collected, best)}
}

func (c *Classifier) remember(mem *Memory, code, name string, cls model.AccountClassification) {
	if mem != nil {
		mem.Remember(code, name, cls)
	}
}

// rank removes the chosen classification once and returns the strongest of
// the remaining candidates.
func rank(collected model.Classifications, best model.AccountClassification) model.Classifications {
	return collected.Without(best).TopN(maxAlternatives)
}

// heuristicCategory guesses a primary category from the folded name: first
// from taxonomy keywords and category names, then from common word stems.
func (c *Classifier) heuristicCategory(folded string) string {
	if primary, ok := c.taxonomy.PrimaryFor(folded); ok {
		return primary
	}
	for _, cat := range c.taxonomy.Categories() {
		if folded != "" && strings.Contains(folded, strings.ToLower(cat.Name)) {
			return cat.Name
		}
	}

	switch {
	case containsAnyOf(folded, "asset", "cash", "receivable"):
		return "Assets"
	case containsAnyOf(folded, "liabilit", "payable"):
		return "Liabilities"
	case containsAnyOf(folded, "revenue", "income", "sale"):
		return "Revenue"
	case containsAnyOf(folded, "expense", "cost"):
		return "Expenses"
	case containsAnyOf(folded, "capital", "equity", "earnings"):
		return "Equity"
	default:
		return model.Uncategorized
	}
}

func containsAnyOf(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
