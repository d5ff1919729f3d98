// Package grid reads the first worksheet of a spreadsheet into an addressable
// cell grid restricted to the sheet's used range.
package grid

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Kind classifies a cell's content.
type Kind int

// Cell kinds.
const (
	Empty Kind = iota
	String
	Number
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	default:
		return "empty"
	}
}

// Cell is a single worksheet value.
type Cell struct {
	Text   string
	Number decimal.Decimal
	Kind   Kind
}

// NewCell classifies raw cell text. Text that parses as an amount becomes a
// Number cell; anything else non-blank is a String cell.
func NewCell(raw string) Cell {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Cell{}
	}
	if n, ok := ParseAmount(text); ok {
		return Cell{Text: text, Kind: Number, Number: n}
	}
	return Cell{Text: text, Kind: String}
}

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// Grid is the used range of one worksheet. Row and column indexes are
// zero-based offsets from the top-left corner of the used range.
type Grid struct {
	Sheet string
	Rows  [][]Cell
	// OriginRow and OriginCol locate the used range inside the sheet (zero-based).
	OriginRow int
	OriginCol int
}

// New builds a grid from raw row text.
func New(sheet string, rows [][]string) *Grid {
	g := &Grid{Sheet: sheet, Rows: make([][]Cell, len(rows))}
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, raw := range row {
			cells[j] = NewCell(raw)
		}
		g.Rows[i] = cells
	}
	return g
}

// Len returns the number of rows in the used range.
func (g *Grid) Len() int {
	return len(g.Rows)
}

// Width returns the widest row length.
func (g *Grid) Width() int {
	width := 0
	for _, row := range g.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Row returns the cells of row r, or nil when r is out of range.
func (g *Grid) Row(r int) []Cell {
	if r < 0 || r >= len(g.Rows) {
		return nil
	}
	return g.Rows[r]
}

// Cell returns the cell at (r, c); out-of-range positions are empty.
func (g *Grid) Cell(r, c int) Cell {
	row := g.Row(r)
	if c < 0 || c >= len(row) {
		return Cell{}
	}
	return row[c]
}

// RowIsEmpty reports whether every cell in row r is blank.
func (g *Grid) RowIsEmpty(r int) bool {
	for _, cell := range g.Row(r) {
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}

// CountKind counts the cells of the given kind in row r.
func (g *Grid) CountKind(r int, kind Kind) int {
	n := 0
	for _, cell := range g.Row(r) {
		if cell.Kind == kind {
			n++
		}
	}
	return n
}

// RowTexts returns the trimmed text of row r with trailing blanks removed.
func (g *Grid) RowTexts(r int) []string {
	row := g.Row(r)
	end := len(row)
	for end > 0 && row[end-1].IsEmpty() {
		end--
	}
	texts := make([]string, end)
	for i := 0; i < end; i++ {
		texts[i] = row[i].Text
	}
	return texts
}

// CellName returns the A1 reference of a grid position in sheet coordinates.
func (g *Grid) CellName(r, c int) string {
	name, err := excelize.CoordinatesToCellName(g.OriginCol+c+1, g.OriginRow+r+1)
	if err != nil {
		return ""
	}
	return name
}

// ColumnName returns the letter name of a zero-based column index.
func ColumnName(c int) string {
	name, err := excelize.ColumnNumberToName(c + 1)
	if err != nil {
		return ""
	}
	return name
}

// RangeOf returns the A1 range spanning rows from..to (inclusive) across the
// full grid width.
func (g *Grid) RangeOf(from, to int) string {
	width := g.Width()
	if width == 0 {
		width = 1
	}
	return g.CellName(from, 0) + ":" + g.CellName(to, width-1)
}

// Range returns the A1 reference of the whole used range.
func (g *Grid) Range() string {
	if len(g.Rows) == 0 {
		return ""
	}
	return g.RangeOf(0, len(g.Rows)-1)
}
