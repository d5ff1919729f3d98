package model

// HintType labels what kind of column an external label hint describes.
type HintType string

// Hint type constants.
const (
	HintAccountDescription HintType = "account_description"
	HintDebit              HintType = "debit"
	HintCredit             HintType = "credit"
	HintUnknown            HintType = "unknown"
)

// LabelHint is a candidate column label supplied by the text extraction service.
type LabelHint struct {
	Text       string   `json:"text"`
	Type       HintType `json:"type"`
	Confidence float64  `json:"confidence"`
}
