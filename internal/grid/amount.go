package grid

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	amountRe       = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	currencyMarks  = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", "₹", "", ",", "", " ", "", " ", "", "'", "")
	currencyPrefix = []string{"usd", "eur", "gbp", "cad", "aud"}
)

// ParseAmount parses spreadsheet amount text into an exact decimal.
// Thousands separators and currency marks are ignored; "(123.45)" and
// "123.45-" are negative.
func ParseAmount(text string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, false
	}

	lower := strings.ToLower(s)
	for _, p := range currencyPrefix {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") && len(s) > 1 {
		negative = !negative
		s = s[:len(s)-1]
	}

	s = currencyMarks.Replace(s)
	if !amountRe.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
