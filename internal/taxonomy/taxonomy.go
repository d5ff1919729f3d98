// Package taxonomy holds the chart-of-accounts keyword dictionary used to
// classify ledger accounts and recognize statement types.
package taxonomy

import (
	"fmt"
	"strings"
)

// Leaf is the most specific level of the hierarchy together with the
// keywords that identify it.
type Leaf struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Group is the secondary level of the hierarchy.
type Group struct {
	Name     string `yaml:"name" json:"name"`
	Accounts []Leaf `yaml:"accounts" json:"accounts"`
}

// Category is the primary level of the hierarchy.
type Category struct {
	Name   string  `yaml:"name" json:"name"`
	Groups []Group `yaml:"groups" json:"groups"`
}

// Account is one row of the standard chart of accounts.
type Account struct {
	Code      string `yaml:"code" json:"code"`
	Primary   string `yaml:"primary" json:"primary"`
	Secondary string `yaml:"secondary" json:"secondary"`
	Tertiary  string `yaml:"tertiary" json:"tertiary"`
}

// DocumentKeywords are the words that identify each statement type.
type DocumentKeywords struct {
	TrialBalance    []string `yaml:"trialBalance" json:"trialBalance"`
	BalanceSheet    []string `yaml:"balanceSheet" json:"balanceSheet"`
	IncomeStatement []string `yaml:"incomeStatement" json:"incomeStatement"`
}

// All returns the three lists concatenated in trial balance, balance sheet,
// income statement order.
func (d DocumentKeywords) All() []string {
	all := make([]string, 0, len(d.TrialBalance)+len(d.BalanceSheet)+len(d.IncomeStatement))
	all = append(all, d.TrialBalance...)
	all = append(all, d.BalanceSheet...)
	all = append(all, d.IncomeStatement...)
	return all
}

// Taxonomy is an immutable keyword dictionary plus the standard chart of
// accounts. It is safe for concurrent use because nothing mutates it after
// construction.
type Taxonomy struct {
	byCode     map[string]Account
	categories []Category
	chart      []Account
	codes      []string
	documents  DocumentKeywords
}

// New builds a taxonomy, lower-casing every keyword and indexing the chart.
func New(categories []Category, documents DocumentKeywords, chart []Account) (*Taxonomy, error) {
	t := &Taxonomy{
		byCode:     make(map[string]Account, len(chart)),
		categories: make([]Category, 0, len(categories)),
		chart:      make([]Account, 0, len(chart)),
		codes:      make([]string, 0, len(chart)),
		documents: DocumentKeywords{
			TrialBalance:    lowerAll(documents.TrialBalance),
			BalanceSheet:    lowerAll(documents.BalanceSheet),
			IncomeStatement: lowerAll(documents.IncomeStatement),
		},
	}

	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("category name is required")
		}
		c := Category{Name: cat.Name, Groups: make([]Group, 0, len(cat.Groups))}
		for _, g := range cat.Groups {
			group := Group{Name: g.Name, Accounts: make([]Leaf, 0, len(g.Accounts))}
			for _, leaf := range g.Accounts {
				if len(leaf.Keywords) == 0 {
					return nil, fmt.Errorf("account %q under %s > %s has no keywords", leaf.Name, cat.Name, g.Name)
				}
				group.Accounts = append(group.Accounts, Leaf{Name: leaf.Name, Keywords: lowerAll(leaf.Keywords)})
			}
			c.Groups = append(c.Groups, group)
		}
		t.categories = append(t.categories, c)
	}

	for _, acct := range chart {
		code := strings.TrimSpace(acct.Code)
		if code == "" {
			return nil, fmt.Errorf("chart of accounts entry %q has no code", acct.Tertiary)
		}
		if _, dup := t.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate account code %q in chart of accounts", code)
		}
		acct.Code = code
		t.byCode[code] = acct
		t.chart = append(t.chart, acct)
		t.codes = append(t.codes, code)
	}

	return t, nil
}

// Lookup returns the standard account for an exact code.
func (t *Taxonomy) Lookup(code string) (Account, bool) {
	acct, ok := t.byCode[code]
	return acct, ok
}

// Codes returns the standard codes in chart order. Callers must not modify it.
func (t *Taxonomy) Codes() []string {
	return t.codes
}

// Chart returns the standard chart of accounts. Callers must not modify it.
func (t *Taxonomy) Chart() []Account {
	return t.chart
}

// Categories returns the keyword hierarchy. Callers must not modify it.
func (t *Taxonomy) Categories() []Category {
	return t.categories
}

// Documents returns the statement-type keyword lists.
func (t *Taxonomy) Documents() DocumentKeywords {
	return t.documents
}

// Walk calls fn for every leaf in hierarchy order.
func (t *Taxonomy) Walk(fn func(primary, secondary string, leaf Leaf)) {
	for _, cat := range t.categories {
		for _, g := range cat.Groups {
			for _, leaf := range g.Accounts {
				fn(cat.Name, g.Name, leaf)
			}
		}
	}
}

// PrimaryFor returns the first primary category owning a keyword contained
// in text, which must already be lower-cased.
func (t *Taxonomy) PrimaryFor(text string) (string, bool) {
	for _, cat := range t.categories {
		for _, g := range cat.Groups {
			for _, leaf := range g.Accounts {
				for _, kw := range leaf.Keywords {
					if strings.Contains(text, kw) {
						return cat.Name, true
					}
				}
			}
		}
	}
	return "", false
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
