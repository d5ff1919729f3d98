// Package aggregation sums ledger amounts with exact decimal arithmetic and
// collects total rows into category summaries.
package aggregation

import (
	"sort"
	"strings"

	"github.com/Veraticus/tally/internal/model"
	"github.com/shopspring/decimal"
)

// Category names used for total rows.
const (
	CategoryAssets      = "Assets"
	CategoryLiabilities = "Liabilities"
	CategoryEquity      = "Equity"
	CategoryRevenue     = "Revenue"
	CategoryExpenses    = "Expenses"
	CategoryOther       = "Other"
)

var totalCategories = []struct {
	stem     string
	category string
}{
	{"asset", CategoryAssets},
	{"liabilit", CategoryLiabilities},
	{"equity", CategoryEquity},
	{"revenue", CategoryRevenue},
	{"expense", CategoryExpenses},
}

// IsTotalRow reports whether an account name marks a subtotal or total.
// Any name containing "total" qualifies, so "Total Holdings Inc." does too.
func IsTotalRow(name string) bool {
	return strings.Contains(strings.ToLower(name), "total")
}

// TotalCategory infers the category a total row belongs to.
func TotalCategory(name string) string {
	lower := strings.ToLower(name)
	for _, c := range totalCategories {
		if strings.Contains(lower, c.stem) {
			return c.category
		}
	}
	return CategoryOther
}

// Summarize turns a total row into a summary. The larger side wins; equal
// sides are reported as CREDIT.
func Summarize(name string, debit, credit decimal.Decimal) model.TotalSummary {
	summary := model.TotalSummary{
		Name:     name,
		Category: TotalCategory(name),
		Type:     model.EntryCredit,
		Amount:   credit,
	}
	if debit.GreaterThan(credit) {
		summary.Type = model.EntryDebit
		summary.Amount = debit
	}
	return summary
}

// Engine accumulates one run's entries and total rows.
type Engine struct {
	debits    decimal.Decimal
	credits   decimal.Decimal
	summaries []model.TotalSummary
	entries   int
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{debits: decimal.Zero, credits: decimal.Zero}
}

// AddEntry adds an entry's amounts to the running totals.
func (e *Engine) AddEntry(entry model.FinancialEntry) {
	e.debits = e.debits.Add(entry.Debit)
	e.credits = e.credits.Add(entry.Credit)
	e.entries++
}

// AddTotal records a total row. Its amounts never reach the running totals.
func (e *Engine) AddTotal(name string, debit, credit decimal.Decimal) model.TotalSummary {
	summary := Summarize(name, debit, credit)
	e.summaries = append(e.summaries, summary)
	return summary
}

// TotalDebits returns the sum of entry debits.
func (e *Engine) TotalDebits() decimal.Decimal {
	return e.debits
}

// TotalCredits returns the sum of entry credits.
func (e *Engine) TotalCredits() decimal.Decimal {
	return e.credits
}

// IsBalanced reports whether debits equal credits exactly.
func (e *Engine) IsBalanced() bool {
	return e.debits.Equal(e.credits)
}

// EntryCount returns the number of entries added.
func (e *Engine) EntryCount() int {
	return e.entries
}

// Summaries returns the total rows sorted by category, then by amount
// descending. Rows with equal keys keep their input order.
func (e *Engine) Summaries() []model.TotalSummary {
	out := make([]model.TotalSummary, len(e.summaries))
	copy(out, e.summaries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}
