// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Fallback classification values used when no strategy produced a match.
const (
	NeedsReview   = "Needs Review"
	Unclassified  = "Unclassified"
	Uncategorized = "Uncategorized"
)

// UncertainThreshold is the confidence below which an entry is flagged for review.
const UncertainThreshold = 0.8

// AccountClassification places an account in the three-level chart of accounts.
type AccountClassification struct {
	Primary    string  `json:"primary"`
	Secondary  string  `json:"secondary"`
	Tertiary   string  `json:"tertiary"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// Path renders the classification as "Primary > Secondary > Tertiary".
func (c AccountClassification) Path() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Primary, c.Secondary, c.Tertiary} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " > ")
}

// Validate ensures the classification has valid data.
func (c AccountClassification) Validate() error {
	if c.Primary == "" {
		return fmt.Errorf("primary category is required")
	}

	if c.Confidence < 0.0 || c.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", c.Confidence)
	}

	return nil
}

// Classifications is a slice of AccountClassification that supports ranking.
type Classifications []AccountClassification

// Sort orders the classifications by confidence, highest first. Equal
// confidences keep their original order.
func (c Classifications) Sort() {
	sort.SliceStable(c, func(i, j int) bool {
		return c[i].Confidence > c[j].Confidence
	})
}

// Top returns the highest-confidence classification, or nil if empty.
func (c Classifications) Top() *AccountClassification {
	if len(c) == 0 {
		return nil
	}
	c.Sort()
	return &c[0]
}

// TopN returns a copy of the N highest-confidence classifications.
func (c Classifications) TopN(n int) Classifications {
	if n <= 0 {
		return Classifications{}
	}

	c.Sort()

	if n > len(c) {
		n = len(c)
	}

	result := make(Classifications, n)
	copy(result, c[:n])
	return result
}

// Without returns the classifications that are not the given one. Only the
// first occurrence of an identical value is removed.
func (c Classifications) Without(chosen AccountClassification) Classifications {
	result := make(Classifications, 0, len(c))
	removed := false
	for _, cls := range c {
		if !removed && cls == chosen {
			removed = true
			continue
		}
		result = append(result, cls)
	}
	return result
}

// Validate ensures all classifications in the slice are valid.
func (c Classifications) Validate() error {
	for i, cls := range c {
		if err := cls.Validate(); err != nil {
			return fmt.Errorf("invalid classification at index %d: %w", i, err)
		}
	}
	return nil
}
