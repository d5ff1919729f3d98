package engine

import (
	"regexp"
	"strings"

	"github.com/Veraticus/tally/internal/aggregation"
	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/model"
	"github.com/shopspring/decimal"
)

// rowKind is the branch a scanned row takes.
type rowKind int

const (
	rowEmpty rowKind = iota
	rowHeader
	rowTotal
	rowData
)

// structuralKeywords mark section headings inside a statement.
var structuralKeywords = []string{
	"assets", "liabilities", "equity", "current", "non-current", "operating",
	"revenue", "expenses", "income", "balance sheet", "statement",
}

// codeNameRe splits cells such as "1000 - Cash" or "4010: Sales".
var codeNameRe = regexp.MustCompile(`^([A-Za-z]{0,3}\d[\w.\-/]*)(?:\s*[-–:|]\s*|\s+)(\S.*)$`)

// rowValues are the fields read from one table row.
type rowValues struct {
	code      string
	name      string
	debit     decimal.Decimal
	credit    decimal.Decimal
	hasAmount bool
	swapped   bool
}

func readRow(g *grid.Grid, r int, cols columns) rowValues {
	text := func(c int) string {
		if c < 0 {
			return ""
		}
		return strings.TrimSpace(g.Cell(r, c).Text)
	}
	number := func(c int) (decimal.Decimal, bool) {
		if c < 0 {
			return decimal.Zero, false
		}
		cell := g.Cell(r, c)
		if cell.Kind != grid.Number {
			return decimal.Zero, false
		}
		return cell.Number, true
	}

	v := rowValues{
		code:   text(cols.code),
		name:   text(cols.name),
		debit:  decimal.Zero,
		credit: decimal.Zero,
	}

	if cols.code < 0 {
		if m := codeNameRe.FindStringSubmatch(v.name); m != nil {
			v.code, v.name = m[1], strings.TrimSpace(m[2])
		}
	}

	if d, ok := number(cols.debit); ok {
		v.debit, v.hasAmount = d, true
	}
	if c, ok := number(cols.credit); ok {
		v.credit, v.hasAmount = c, true
	}
	if a, ok := number(cols.amount); ok {
		v.hasAmount = true
		if a.IsNegative() {
			v.credit = v.credit.Add(a.Neg())
		} else {
			v.debit = v.debit.Add(a)
		}
	}

	if v.debit.IsNegative() {
		v.credit = v.credit.Add(v.debit.Neg())
		v.debit = decimal.Zero
		v.swapped = true
	}
	if v.credit.IsNegative() {
		v.debit = v.debit.Add(v.credit.Neg())
		v.credit = decimal.Zero
		v.swapped = true
	}
	return v
}

// label is the text used to recognize total rows.
func (v rowValues) label() string {
	if v.name != "" {
		return v.name
	}
	return v.code
}

func classifyRow(g *grid.Grid, r int, v rowValues) rowKind {
	switch {
	case g.RowIsEmpty(r):
		return rowEmpty
	case !v.hasAmount && isStructural(g, r):
		return rowHeader
	case aggregation.IsTotalRow(v.label()):
		return rowTotal
	default:
		return rowData
	}
}

func isStructural(g *grid.Grid, r int) bool {
	var parts []string
	for _, cell := range g.Row(r) {
		if cell.Kind == grid.String {
			parts = append(parts, cell.Text)
		}
	}
	text := grid.NormalizeText(strings.Join(parts, " "))
	if text == "" {
		return false
	}
	for _, kw := range structuralKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (p *Processor) processRow(run *Run, g *grid.Grid, table model.DetectedTable, cols columns, r int) {
	v := readRow(g, r, cols)
	row := sheetRow(g, r)

	switch classifyRow(g, r, v) {
	case rowEmpty:
		run.Log.Info("Skipped empty row", map[string]any{"row": row})

	case rowHeader:
		run.Log.Info("Skipped section header", map[string]any{"row": row, "text": strings.Join(g.RowTexts(r), " ")})

	case rowTotal:
		summary := run.Totals.AddTotal(v.label(), v.debit, v.credit)
		run.Log.Info("Extracted total row", map[string]any{
			"row":      row,
			"name":     summary.Name,
			"category": summary.Category,
			"type":     string(summary.Type),
			"amount":   summary.Amount.String(),
		})

	case rowData:
		if v.swapped {
			run.Log.Warning("Negative amount moved to the opposite side", map[string]any{
				"row":    row,
				"code":   v.code,
				"debit":  v.debit.String(),
				"credit": v.credit.String(),
			})
		}
		p.addEntry(run, table, v, row)
	}
}

func (p *Processor) addEntry(run *Run, table model.DetectedTable, v rowValues, row int) {
	res := p.classifier.Classify(run.Memory, v.code, v.name)

	entry := model.FinancialEntry{
		AccountCode:    v.code,
		AccountName:    v.name,
		Debit:          v.debit,
		Credit:         v.credit,
		Classification: res.Best,
		SourceTable:    table.Name,
		RowIndex:       row,
	}
	run.Entries = append(run.Entries, entry)
	run.Totals.AddEntry(entry)

	p.logger.Debug("Classified account",
		"run_id", run.ID,
		"code", v.code,
		"name", v.name,
		"classification", res.Best.Path(),
		"confidence", res.Best.Confidence)

	if res.Uncertain() {
		run.Uncertain = append(run.Uncertain, model.UncertainClassification{
			Entry:                   entry,
			PossibleClassifications: res.Alternatives,
		})
	}

	if res.Unmatched != nil {
		run.Unmatched = append(run.Unmatched, *res.Unmatched)
		run.Log.Warning("Account could not be classified", map[string]any{
			"row":      row,
			"code":     v.code,
			"name":     v.name,
			"category": res.Best.Primary,
		})
	}
}
