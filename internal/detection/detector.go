// Package detection locates financial tables inside a worksheet grid.
package detection

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/hints"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/taxonomy"
)

// Detection thresholds.
const (
	minHeaderStrings = 2
	minKeywordHits   = 2
	minDataRows      = 2

	lenientConfidence     = 0.5
	lenientHintConfidence = 0.7
)

// Detector finds tabular regions and decides which statement they hold.
type Detector struct {
	taxonomy          *taxonomy.Taxonomy
	logger            *slog.Logger
	minHintConfidence float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMinHintConfidence ignores label hints below the given confidence.
func WithMinHintConfidence(minConfidence float64) Option {
	return func(d *Detector) {
		d.minHintConfidence = minConfidence
	}
}

// New creates a detector backed by the taxonomy's document keywords.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Detector {
	d := &Detector{
		taxonomy: tax,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the tables found in g in scan order. The first table is the
// primary one. When no header qualifies strictly, a single lenient table is
// returned instead; when not even that is possible the error is a
// DetectionError.
func (d *Detector) Detect(g *grid.Grid, labels []model.LabelHint) ([]model.DetectedTable, error) {
	confirmed := hints.Confirms(labels, d.minHintConfidence)

	tables := d.strict(g, confirmed)
	if len(tables) > 0 {
		return tables, nil
	}

	d.logger.Debug("No strict table match, trying lenient detection", "sheet", g.Sheet, "hints_confirmed", confirmed)

	table, ok := d.lenient(g, confirmed)
	if !ok {
		return nil, common.DetectionError()
	}
	return []model.DetectedTable{table}, nil
}

func (d *Detector) strict(g *grid.Grid, confirmed bool) []model.DetectedTable {
	var tables []model.DetectedTable

	for r := 0; r < g.Len(); r++ {
		if g.CountKind(r, grid.String) < minHeaderStrings {
			continue
		}

		headers := normalizedHeaders(g, r)
		hits := d.keywordHits(headers)
		if hits < minKeywordHits && !confirmed {
			continue
		}

		last := d.regionEnd(g, r)
		dataRows := countNonEmpty(g, r+1, last)
		if dataRows < minDataRows {
			continue
		}

		table := d.describe(g, r, last, dataRows, headers, confirmed)
		table.Name = fmt.Sprintf("Table %d", len(tables)+1)
		tables = append(tables, table)

		d.logger.Debug("Detected table",
			"name", table.Name,
			"range", table.Range,
			"type", table.Type,
			"keyword_hits", hits,
			"confidence", table.Confidence)

		r = last
	}

	return tables
}

// regionEnd returns the last row belonging to the table whose header is at
// row header: the row before the next header, or the end of the used range.
func (d *Detector) regionEnd(g *grid.Grid, header int) int {
	for r := header + 1; r < g.Len(); r++ {
		if d.isBoundary(g, r) {
			return r - 1
		}
	}
	return g.Len() - 1
}

// isBoundary reports whether row r starts a new table. Rows carrying amounts
// are data even when their labels mention statement keywords, as in an
// "Account Type" column.
func (d *Detector) isBoundary(g *grid.Grid, r int) bool {
	return g.CountKind(r, grid.Number) == 0 &&
		g.CountKind(r, grid.String) >= minHeaderStrings &&
		d.keywordHits(normalizedHeaders(g, r)) >= minKeywordHits
}

func (d *Detector) lenient(g *grid.Grid, confirmed bool) (model.DetectedTable, bool) {
	for r := 0; r < g.Len(); r++ {
		qualifies := g.CountKind(r, grid.String) >= minHeaderStrings
		if confirmed && !g.RowIsEmpty(r) {
			qualifies = true
		}
		if !qualifies {
			continue
		}

		last := g.Len() - 1
		table := model.DetectedTable{
			Name:       "Table 1",
			SheetName:  g.Sheet,
			Range:      g.RangeOf(r, last),
			Type:       model.TableUnknown,
			Headers:    g.RowTexts(r),
			HeaderRow:  r,
			LastRow:    last,
			RowCount:   countNonEmpty(g, r+1, last),
			Confidence: lenientConfidence,
		}
		if confirmed {
			table.Type = model.TableTrialBalance
			table.Confidence = lenientHintConfidence
		}
		return table, true
	}
	return model.DetectedTable{}, false
}

func (d *Detector) describe(g *grid.Grid, header, last, dataRows int, headers []string, confirmed bool) model.DetectedTable {
	docs := d.taxonomy.Documents()
	tableType := classifyType(headers, docs)

	confidence := 0.0
	if containsAll(headers, "debit", "credit") {
		confidence += 0.4
	}
	if containsAny(headers, "account", "description") {
		confidence += 0.3
	}
	if list := keywordsFor(tableType, docs); len(list) > 0 {
		confidence += 0.3 * float64(countPresent(headers, list)) / float64(len(list))
	}
	if confirmed {
		confidence += 0.2
	}

	return model.DetectedTable{
		SheetName:  g.Sheet,
		Range:      g.RangeOf(header, last),
		Type:       tableType,
		Headers:    g.RowTexts(header),
		HeaderRow:  header,
		LastRow:    last,
		RowCount:   dataRows,
		Confidence: min(confidence, 1.0),
	}
}

func (d *Detector) keywordHits(headers []string) int {
	return countPresent(headers, d.taxonomy.Documents().All())
}

// classifyType picks the statement type; the first matching rule wins.
func classifyType(headers []string, docs taxonomy.DocumentKeywords) model.TableType {
	switch {
	case countPresent(headers, docs.TrialBalance) > 0 || containsAll(headers, "debit", "credit"):
		return model.TableTrialBalance
	case countPresent(headers, docs.BalanceSheet) > 0 || containsAll(headers, "assets", "liabilities"):
		return model.TableBalanceSheet
	case countPresent(headers, docs.IncomeStatement) > 0 || containsAll(headers, "revenue", "expenses"):
		return model.TableIncomeStatement
	default:
		return model.TableUnknown
	}
}

func keywordsFor(t model.TableType, docs taxonomy.DocumentKeywords) []string {
	switch t {
	case model.TableTrialBalance:
		return docs.TrialBalance
	case model.TableBalanceSheet:
		return docs.BalanceSheet
	case model.TableIncomeStatement:
		return docs.IncomeStatement
	default:
		return nil
	}
}

func normalizedHeaders(g *grid.Grid, r int) []string {
	texts := g.RowTexts(r)
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if n := grid.NormalizeText(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// countPresent counts the keywords that appear in at least one header.
func countPresent(headers, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if containsAny(headers, kw) {
			n++
		}
	}
	return n
}

func containsAny(headers []string, tokens ...string) bool {
	for _, h := range headers {
		for _, tok := range tokens {
			if strings.Contains(h, tok) {
				return true
			}
		}
	}
	return false
}

func containsAll(headers []string, tokens ...string) bool {
	for _, tok := range tokens {
		if !containsAny(headers, tok) {
			return false
		}
	}
	return true
}

func countNonEmpty(g *grid.Grid, from, to int) int {
	n := 0
	for r := from; r <= to; r++ {
		if !g.RowIsEmpty(r) {
			n++
		}
	}
	return n
}
