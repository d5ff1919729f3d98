package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// JSONWriter writes a result as JSON.
type JSONWriter struct {
	Indent bool
}

// Write encodes the result to w.
func (jw JSONWriter) Write(w io.Writer, result *model.TrialBalanceResult) error {
	enc := json.NewEncoder(w)
	if jw.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

var _ service.ResultWriter = JSONWriter{}
