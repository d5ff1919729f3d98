package engine

import (
	"strings"

	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/model"
)

// columns holds the index of each role in the table, or -1.
type columns struct {
	code   int
	name   int
	debit  int
	credit int
	// amount is a single signed column: positive is debit, negative credit.
	amount int
}

func (c columns) hasAmounts() bool {
	return c.debit >= 0 || c.credit >= 0 || c.amount >= 0
}

func (c columns) assigned(i int) bool {
	return i == c.code || i == c.name || i == c.debit || i == c.credit || i == c.amount
}

func (c columns) details(headers []string) map[string]any {
	label := func(i int) string {
		if i < 0 {
			return ""
		}
		if i < len(headers) && headers[i] != "" {
			return headers[i]
		}
		return grid.ColumnName(i)
	}
	return map[string]any{
		"code":   label(c.code),
		"name":   label(c.name),
		"debit":  label(c.debit),
		"credit": label(c.credit),
		"amount": label(c.amount),
	}
}

// mapColumns assigns roles to header columns from label hints first, then
// from header text, then by position. The first column matching a role keeps
// it.
func mapColumns(headers []string, hinted map[string]model.HintType) columns {
	c := columns{code: -1, name: -1, debit: -1, credit: -1, amount: -1}
	set := func(role *int, i int) {
		if *role < 0 && !c.assigned(i) {
			*role = i
		}
	}

	for i, h := range headers {
		switch hinted[grid.NormalizeText(h)] {
		case model.HintAccountDescription:
			set(&c.name, i)
		case model.HintDebit:
			set(&c.debit, i)
		case model.HintCredit:
			set(&c.credit, i)
		}
	}

	for i, h := range headers {
		n := grid.NormalizeText(h)
		switch {
		case n == "":
		case isDebitHeader(n):
			set(&c.debit, i)
		case isCreditHeader(n):
			set(&c.credit, i)
		case isCodeHeader(n):
			set(&c.code, i)
		case isNameHeader(n):
			set(&c.name, i)
		case strings.Contains(n, "amount") || strings.Contains(n, "balance"):
			set(&c.amount, i)
		}
	}

	if !c.hasAmounts() {
		return positional(len(headers))
	}

	if c.name < 0 {
		for i := range headers {
			if !c.assigned(i) {
				c.name = i
				break
			}
		}
	}
	return c
}

// positional falls back to the conventional layouts: code, name, debit,
// credit for four or more columns; name, debit, credit for three; name and a
// signed amount for two.
func positional(width int) columns {
	out := columns{code: -1, name: -1, debit: -1, credit: -1, amount: -1}
	switch {
	case width >= 4:
		out.code, out.name, out.debit, out.credit = 0, 1, 2, 3
	case width == 3:
		out.name, out.debit, out.credit = 0, 1, 2
	case width == 2:
		out.name, out.amount = 0, 1
	default:
		out.name = 0
	}
	return out
}

func isDebitHeader(n string) bool {
	return n == "dr" || n == "dr." || strings.Contains(n, "debit")
}

func isCreditHeader(n string) bool {
	return n == "cr" || n == "cr." || strings.Contains(n, "credit")
}

func isCodeHeader(n string) bool {
	switch n {
	case "no", "no.", "#", "nr", "ref", "gl":
		return true
	}
	return strings.Contains(n, "code") ||
		strings.Contains(n, "number") ||
		strings.HasSuffix(n, " no") ||
		strings.HasSuffix(n, " no.") ||
		strings.HasSuffix(n, " #")
}

func isNameHeader(n string) bool {
	for _, kw := range []string{"name", "description", "account", "particulars", "details", "ledger"} {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}
