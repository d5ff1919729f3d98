// Package hints obtains candidate column labels from an external text
// extraction service and interprets them.
package hints

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/model"
)

// Response is the payload returned by the label service.
type Response struct {
	Labels []model.LabelHint `json:"labels"`
}

// Parse decodes either {"labels": [...]} or a bare array of labels. Labels
// with an unrecognized type are kept as unknown.
func Parse(data []byte) ([]model.LabelHint, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	var labels []model.LabelHint
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &labels); err != nil {
			return nil, fmt.Errorf("failed to parse label hints: %w", err)
		}
	} else {
		var resp Response
		if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse label hints: %w", err)
		}
		labels = resp.Labels
	}

	out := make([]model.LabelHint, 0, len(labels))
	for _, l := range labels {
		l.Text = strings.TrimSpace(l.Text)
		if l.Text == "" {
			continue
		}
		switch l.Type {
		case model.HintAccountDescription, model.HintDebit, model.HintCredit:
		default:
			l.Type = model.HintUnknown
		}
		l.Confidence = min(max(l.Confidence, 0), 1)
		out = append(out, l)
	}
	return out, nil
}

// Confirms reports whether the hints name an account description, a debit
// and a credit column, each with at least minConfidence.
func Confirms(labels []model.LabelHint, minConfidence float64) bool {
	var desc, debit, credit bool
	for _, l := range labels {
		if l.Confidence < minConfidence {
			continue
		}
		switch l.Type {
		case model.HintAccountDescription:
			desc = true
		case model.HintDebit:
			debit = true
		case model.HintCredit:
			credit = true
		}
	}
	return desc && debit && credit
}

// Columns indexes hint types by normalized label text so header cells can be
// mapped to roles. The first hint for a text wins.
func Columns(labels []model.LabelHint, minConfidence float64) map[string]model.HintType {
	out := make(map[string]model.HintType, len(labels))
	for _, l := range labels {
		if l.Confidence < minConfidence || l.Type == model.HintUnknown {
			continue
		}
		key := grid.NormalizeText(l.Text)
		if _, ok := out[key]; !ok {
			out[key] = l.Type
		}
	}
	return out
}
