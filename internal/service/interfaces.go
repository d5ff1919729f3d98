// Package service defines the interfaces shared between pipeline collaborators.
package service

import (
	"context"
	"io"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// HintProvider supplies candidate column labels for a spreadsheet payload.
type HintProvider interface {
	Hints(ctx context.Context, filename string, data []byte) ([]model.LabelHint, error)
}

// ResultWriter serializes a processing result.
type ResultWriter interface {
	Write(w io.Writer, result *model.TrialBalanceResult) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
