package grid

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/tally/internal/common"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Format is a supported spreadsheet container.
type Format string

// Supported formats.
const (
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatCSV     Format = "csv"
	FormatUnknown Format = ""
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat picks a format from the file extension, falling back to the
// payload's magic bytes.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	}

	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS
	case len(data) > 0 && !bytes.Contains(data[:min(len(data), 512)], []byte{0}):
		return FormatCSV
	}
	return FormatUnknown
}

// Load reads the first worksheet of a spreadsheet payload.
func Load(filename string, data []byte) (*Grid, error) {
	switch DetectFormat(filename, data) {
	case FormatXLSX:
		return LoadXLSX(bytes.NewReader(data))
	case FormatXLS:
		g, err := LoadXLS(bytes.NewReader(data))
		if err != nil && bytes.HasPrefix(data, zipMagic) {
			// A workbook saved as xlsx but named .xls.
			return LoadXLSX(bytes.NewReader(data))
		}
		return g, err
	case FormatCSV:
		return LoadCSV(filename, bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filename)
	}
}

// LoadXLSX reads the used range of the first sheet of an xlsx workbook.
func LoadXLSX(r io.Reader) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.ErrEmptyWorkbook
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	dim, err := f.GetSheetDimension(sheet)
	if err != nil {
		dim = ""
	}
	return cropToDimension(sheet, rows, dim), nil
}

// cropToDimension restricts rows to the declared used range, e.g. "B3:F40".
// GetRows always starts at A1, so leading rows and columns are dropped. A
// missing or single-cell dimension falls back to the bounds of the data.
func cropToDimension(sheet string, rows [][]string, dim string) *Grid {
	startRow, startCol, endRow, endCol := dataBounds(rows)

	if parts := strings.Split(dim, ":"); len(parts) == 2 {
		c1, r1, err1 := excelize.CellNameToCoordinates(parts[0])
		c2, r2, err2 := excelize.CellNameToCoordinates(parts[1])
		if err1 == nil && err2 == nil {
			startRow, startCol, endRow, endCol = r1-1, c1-1, r2-1, c2-1
		}
	}

	var cropped [][]string
	for i, row := range rows {
		if i < startRow || (endRow >= 0 && i > endRow) {
			continue
		}
		if startCol >= len(row) {
			cropped = append(cropped, nil)
			continue
		}
		end := len(row)
		if endCol >= 0 && endCol+1 < end {
			end = endCol + 1
		}
		cropped = append(cropped, row[startCol:end])
	}

	g := New(sheet, cropped)
	g.OriginRow = startRow
	g.OriginCol = startCol
	return g
}

// dataBounds returns the zero-based corners of the non-blank cells.
func dataBounds(rows [][]string) (top, left, bottom, right int) {
	top, left, bottom, right = -1, -1, -1, -1
	for i, row := range rows {
		for j, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if top < 0 {
				top = i
			}
			bottom = i
			if left < 0 || j < left {
				left = j
			}
			if j > right {
				right = j
			}
		}
	}
	if top < 0 {
		return 0, 0, -1, -1
	}
	return top, left, bottom, right
}

// LoadXLS reads the first sheet of a legacy BIFF workbook.
func LoadXLS(r io.ReadSeeker) (*Grid, error) {
	workbook, err := xls.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, common.ErrEmptyWorkbook
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read xls sheet: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var values []string
		for _, cell := range row.GetCols() {
			values = append(values, cell.GetString())
		}
		rows = append(rows, values)
	}

	return trimBlankEdges(New("Sheet1", rows)), nil
}

// LoadCSV reads delimited text. Payloads that are not valid UTF-8 are
// decoded as Windows-1252, which is what spreadsheet exports usually use.
func LoadCSV(filename string, r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" || name == "." {
		name = "Sheet1"
	}
	return trimBlankEdges(New(name, rows)), nil
}

// sniffDelimiter picks the separator that occurs most often across the first
// few non-blank lines.
func sniffDelimiter(data []byte) rune {
	var sample [][]byte
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		sample = append(sample, line)
		if len(sample) == 5 {
			break
		}
	}

	count := func(d rune) int {
		n := 0
		for _, line := range sample {
			n += bytes.Count(line, []byte(string(d)))
		}
		return n
	}

	best, bestCount := ',', count(',')
	for _, d := range []rune{';', '\t', '|'} {
		if n := count(d); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// FromValues builds a grid from rows fetched by value, dropping blank edge rows.
func FromValues(sheet string, rows [][]string) *Grid {
	return trimBlankEdges(New(sheet, rows))
}

// trimBlankEdges drops leading and trailing blank rows so formats without a
// declared dimension still honor a used range.
func trimBlankEdges(g *Grid) *Grid {
	start := 0
	for start < len(g.Rows) && g.RowIsEmpty(start) {
		start++
	}
	end := len(g.Rows)
	for end > start && g.RowIsEmpty(end-1) {
		end--
	}
	g.Rows = g.Rows[start:end]
	g.OriginRow += start
	return g
}
