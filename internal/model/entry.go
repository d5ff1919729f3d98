package model

import "github.com/shopspring/decimal"

// EntryType is the side of the ledger an amount sits on.
type EntryType string

// Entry type constants.
const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// FinancialEntry is one classified ledger row.
type FinancialEntry struct {
	AccountCode    string                `json:"accountCode"`
	AccountName    string                `json:"accountName"`
	SourceTable    string                `json:"sourceTable"`
	Debit          decimal.Decimal       `json:"debit"`
	Credit         decimal.Decimal       `json:"credit"`
	Classification AccountClassification `json:"classification"`
	RowIndex       int                   `json:"rowIndex"`
}

// UncertainClassification flags an entry for human review.
type UncertainClassification struct {
	PossibleClassifications Classifications `json:"possibleClassifications"`
	Entry                   FinancialEntry  `json:"entry"`
}

// UnmatchedEntry records an account that only the fallback could classify.
type UnmatchedEntry struct {
	AccountCode             string          `json:"accountCode"`
	AccountName             string          `json:"accountName"`
	Reason                  string          `json:"reason"`
	PossibleClassifications Classifications `json:"possibleClassifications"`
}

// TotalSummary is a subtotal or total row lifted out of the source table.
type TotalSummary struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Type     EntryType       `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
}
