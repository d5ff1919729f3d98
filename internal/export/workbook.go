// Package export serializes processing results.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetTrialBalance = "Trial Balance"
	SheetUncertain    = "Uncertain Classifications"
	SheetSummary      = "Summary"
	SheetLogs         = "Processing Logs"
)

const (
	amountFormat  = "#,##0.00"
	percentFormat = "0%"
	headerFill    = "1F4E78"
)

// WorkbookWriter writes a result as an xlsx workbook.
type WorkbookWriter struct{}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// Write renders the four result sheets to w.
func (ww *WorkbookWriter) Write(w io.Writer, result *model.TrialBalanceResult) error {
	f, err := Build(result)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Build creates the workbook in memory.
func Build(result *model.TrialBalanceResult) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("result is nil")
	}

	f := excelize.NewFile()
	b := &builder{f: f}

	if err := f.SetSheetName("Sheet1", SheetTrialBalance); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetUncertain, SheetSummary, SheetLogs} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	steps := []func(*model.TrialBalanceResult) error{
		b.styles,
		b.trialBalance,
		b.uncertain,
		b.summary,
		b.logs,
	}
	for _, step := range steps {
		if err := step(result); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

type builder struct {
	f       *excelize.File
	header  int
	amount  int
	percent int
	bold    int
}

func (b *builder) styles(*model.TrialBalanceResult) error {
	amountFmt := amountFormat
	percentFmt := percentFormat

	var err error
	if b.header, err = b.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	}); err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if b.amount, err = b.f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt}); err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	if b.percent, err = b.f.NewStyle(&excelize.Style{CustomNumFmt: &percentFmt}); err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}
	if b.bold, err = b.f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &amountFmt,
	}); err != nil {
		return fmt.Errorf("failed to create total style: %w", err)
	}
	return nil
}

func (b *builder) trialBalance(result *model.TrialBalanceResult) error {
	const sheet = SheetTrialBalance
	headers := []any{"Account Code", "Account Name", "Classification", "Confidence", "Debit", "Credit"}
	if err := b.headerRow(sheet, headers, []float64{14, 36, 60, 12, 16, 16}); err != nil {
		return err
	}

	row := 2
	for _, e := range result.Entries {
		values := []any{e.AccountCode, e.AccountName, e.Classification.Path(), e.Classification.Confidence,
			amount(e.Debit), amount(e.Credit)}
		if err := b.setRow(sheet, row, values); err != nil {
			return err
		}
		row++
	}
	if err := b.columnStyle(sheet, "D", 2, row-1, b.percent); err != nil {
		return err
	}
	if err := b.columnStyle(sheet, "E", 2, row-1, b.amount); err != nil {
		return err
	}
	if err := b.columnStyle(sheet, "F", 2, row-1, b.amount); err != nil {
		return err
	}

	total := []any{"", "TOTAL", "", "", amount(result.TotalDebits), amount(result.TotalCredits)}
	if err := b.setRow(sheet, row, total); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, cell("A", row), cell("F", row), b.bold)
}

func (b *builder) uncertain(result *model.TrialBalanceResult) error {
	const sheet = SheetUncertain
	headers := []any{"Account Code", "Account Name", "Classification", "Confidence", "Debit", "Credit", "Alternatives"}
	if err := b.headerRow(sheet, headers, []float64{14, 36, 60, 12, 16, 16, 80}); err != nil {
		return err
	}

	row := 2
	for _, u := range result.UncertainClassifications {
		e := u.Entry
		values := []any{e.AccountCode, e.AccountName, e.Classification.Path(), e.Classification.Confidence,
			amount(e.Debit), amount(e.Credit), FormatAlternatives(u.PossibleClassifications)}
		if err := b.setRow(sheet, row, values); err != nil {
			return err
		}
		row++
	}
	if err := b.columnStyle(sheet, "D", 2, row-1, b.percent); err != nil {
		return err
	}
	if err := b.columnStyle(sheet, "E", 2, row-1, b.amount); err != nil {
		return err
	}
	return b.columnStyle(sheet, "F", 2, row-1, b.amount)
}

func (b *builder) summary(result *model.TrialBalanceResult) error {
	const sheet = SheetSummary
	if err := b.headerRow(sheet, []any{"Category", "Name", "Amount", "Type"}, []float64{18, 40, 16, 10}); err != nil {
		return err
	}

	row := 2
	for _, s := range result.TotalsSummary {
		if err := b.setRow(sheet, row, []any{s.Category, s.Name, amount(s.Amount), string(s.Type)}); err != nil {
			return err
		}
		row++
	}

	row++
	footer := [][]any{
		{"Total Debits", "", amount(result.TotalDebits)},
		{"Total Credits", "", amount(result.TotalCredits)},
		{"Difference", "", amount(result.Difference())},
		{"Balanced", "", yesNo(result.IsBalanced)},
	}
	first := row
	for _, values := range footer {
		if err := b.setRow(sheet, row, values); err != nil {
			return err
		}
		row++
	}
	if err := b.columnStyle(sheet, "C", 2, row-1, b.amount); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, cell("A", first), cell("A", row-1), b.bold)
}

func (b *builder) logs(result *model.TrialBalanceResult) error {
	const sheet = SheetLogs
	if err := b.headerRow(sheet, []any{"Timestamp", "Level", "Message", "Details"}, []float64{26, 10, 50, 80}); err != nil {
		return err
	}

	for i, entry := range result.ProcessingLogs {
		details := ""
		if len(entry.Details) > 0 {
			data, err := json.Marshal(entry.Details)
			if err != nil {
				return fmt.Errorf("failed to encode log details: %w", err)
			}
			details = string(data)
		}
		values := []any{entry.Timestamp.Format(time.RFC3339), string(entry.Level), entry.Message, details}
		if err := b.setRow(sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) headerRow(sheet string, headers []any, widths []float64) error {
	if err := b.setRow(sheet, 1, headers); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to name column: %w", err)
	}
	if err := b.f.SetCellStyle(sheet, "A1", last+"1", b.header); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to name column: %w", err)
		}
		if err := b.f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := b.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header of %s: %w", sheet, err)
	}
	return nil
}

func (b *builder) setRow(sheet string, row int, values []any) error {
	if err := b.f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func (b *builder) columnStyle(sheet, col string, from, to, style int) error {
	if to < from {
		return nil
	}
	if err := b.f.SetCellStyle(sheet, cell(col, from), cell(col, to), style); err != nil {
		return fmt.Errorf("failed to style %s column %s: %w", sheet, col, err)
	}
	return nil
}

// FormatAlternatives renders alternatives as "path (70%); path (55%)".
func FormatAlternatives(alts model.Classifications) string {
	parts := make([]string, 0, len(alts))
	for _, a := range alts {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", a.Path(), a.Confidence*100))
	}
	return strings.Join(parts, "; ")
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

var _ service.ResultWriter = (*WorkbookWriter)(nil)
