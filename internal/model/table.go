package model

// TableType is the kind of financial statement a detected table holds.
type TableType string

// Table type constants.
const (
	TableTrialBalance    TableType = "TRIAL_BALANCE"
	TableBalanceSheet    TableType = "BALANCE_SHEET"
	TableIncomeStatement TableType = "INCOME_STATEMENT"
	TableUnknown         TableType = "UNKNOWN"
)

// DetectedTable describes a tabular region found in a worksheet.
type DetectedTable struct {
	Name      string    `json:"name"`
	SheetName string    `json:"sheetName"`
	Range     string    `json:"range"`
	Type      TableType `json:"type"`
	Headers   []string  `json:"headers"`
	// HeaderRow and LastRow are zero-based offsets into the grid rows.
	HeaderRow  int     `json:"headerRow"`
	LastRow    int     `json:"lastRow"`
	RowCount   int     `json:"rowCount"`
	Confidence float64 `json:"confidence"`
}
