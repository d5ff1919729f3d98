package model

import "github.com/shopspring/decimal"

// TrialBalanceResult is everything produced by one processing run.
type TrialBalanceResult struct {
	RunID                    string                    `json:"runId"`
	SourceName               string                    `json:"sourceName"`
	TotalDebits              decimal.Decimal           `json:"totalDebits"`
	TotalCredits             decimal.Decimal           `json:"totalCredits"`
	Entries                  []FinancialEntry          `json:"entries"`
	DetectedTables           []DetectedTable           `json:"detectedTables"`
	ProcessingLogs           []ProcessingLogEntry      `json:"processingLogs"`
	UncertainClassifications []UncertainClassification `json:"uncertainClassifications"`
	UnmatchedEntries         []UnmatchedEntry          `json:"unmatchedEntries"`
	TotalsSummary            []TotalSummary            `json:"totalsSummary"`
	IsBalanced               bool                      `json:"isBalanced"`
}

// Difference returns debits minus credits.
func (r *TrialBalanceResult) Difference() decimal.Decimal {
	return r.TotalDebits.Sub(r.TotalCredits)
}

// NeedsReviewCount returns how many entries a human should look at.
func (r *TrialBalanceResult) NeedsReviewCount() int {
	seen := make(map[int]struct{}, len(r.UncertainClassifications))
	for _, u := range r.UncertainClassifications {
		seen[u.Entry.RowIndex] = struct{}{}
	}
	for _, e := range r.Entries {
		for _, u := range r.UnmatchedEntries {
			if e.AccountCode == u.AccountCode && e.AccountName == u.AccountName {
				seen[e.RowIndex] = struct{}{}
			}
		}
	}
	return len(seen)
}

// CategoryTotals sums entry debits and credits per primary classification.
func (r *TrialBalanceResult) CategoryTotals() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range r.Entries {
		key := e.Classification.Primary
		totals[key] = totals[key].Add(e.Debit).Sub(e.Credit)
	}
	return totals
}
