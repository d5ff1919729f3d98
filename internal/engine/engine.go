// Package engine runs the processing pipeline for one spreadsheet: table
// detection, row scanning, classification and aggregation.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tally/internal/aggregation"
	"github.com/Veraticus/tally/internal/classification"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/detection"
	"github.com/Veraticus/tally/internal/diagnostics"
	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/hints"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/similarity"
	"github.com/Veraticus/tally/internal/taxonomy"
	"github.com/google/uuid"
)

// ProgressFunc is called after each scanned row.
type ProgressFunc func(done, total int)

// Config holds configuration options for the processor.
type Config struct {
	// HintTimeout bounds the label hint request.
	HintTimeout time.Duration
	// MinHintConfidence ignores label hints below this confidence.
	MinHintConfidence float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		HintTimeout: 30 * time.Second,
	}
}

// Processor turns spreadsheets into classified trial balances. It holds only
// read-only collaborators, so one Processor can serve concurrent calls; each
// call gets its own Run.
type Processor struct {
	hints      service.HintProvider
	taxonomy   *taxonomy.Taxonomy
	detector   *detection.Detector
	classifier *classification.Classifier
	logger     *slog.Logger
	clock      diagnostics.Clock
	progress   ProgressFunc
	scorer     similarity.Scorer
	config     Config
}

// Option configures a Processor.
type Option func(*Processor)

// WithHintProvider fetches label hints before detection.
func WithHintProvider(provider service.HintProvider) Option {
	return func(p *Processor) {
		p.hints = provider
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock sets the timestamp source for processing logs.
func WithClock(clock diagnostics.Clock) Option {
	return func(p *Processor) {
		p.clock = clock
	}
}

// WithProgress registers a per-row progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Processor) {
		p.progress = fn
	}
}

// WithScorer replaces the account code similarity scorer.
func WithScorer(scorer similarity.Scorer) Option {
	return func(p *Processor) {
		p.scorer = scorer
	}
}

// New creates a processor for the given taxonomy.
func New(tax *taxonomy.Taxonomy, config Config, opts ...Option) *Processor {
	if tax == nil {
		tax = taxonomy.Default()
	}
	p := &Processor{
		taxonomy: tax,
		config:   config,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.detector = detection.New(tax,
		detection.WithLogger(p.logger),
		detection.WithMinHintConfidence(config.MinHintConfidence))
	p.classifier = classification.New(tax, classification.WithScorer(p.scorer))
	return p
}

// Taxonomy returns the taxonomy the processor classifies against.
func (p *Processor) Taxonomy() *taxonomy.Taxonomy {
	return p.taxonomy
}

// Run is the state owned by a single processing call.
type Run struct {
	Memory      *classification.Memory
	Log         *diagnostics.Log
	Totals      *aggregation.Engine
	ID          string
	Entries     []model.FinancialEntry
	Uncertain   []model.UncertainClassification
	Unmatched   []model.UnmatchedEntry
	Tables      []model.DetectedTable
	SourceName  string
	scannedRows int
}

func (p *Processor) newRun(source string) *Run {
	id := uuid.NewString()
	return &Run{
		ID:         id,
		SourceName: source,
		Memory:     classification.NewMemory(),
		Log: diagnostics.New(
			diagnostics.WithClock(p.clock),
			diagnostics.WithLogger(p.logger.With("run_id", id))),
		Totals:    aggregation.NewEngine(),
		Entries:   []model.FinancialEntry{},
		Uncertain: []model.UncertainClassification{},
		Unmatched: []model.UnmatchedEntry{},
	}
}

// ProcessFile loads the first worksheet of a spreadsheet payload, asks the
// hint provider (if any) for column labels, and processes the grid.
func (p *Processor) ProcessFile(ctx context.Context, filename string, data []byte) (*model.TrialBalanceResult, error) {
	g, err := grid.Load(filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	run := p.newRun(filename)
	labels := p.fetchHints(ctx, run, filename, data)
	return p.process(ctx, run, g, labels)
}

// ProcessGrid processes an already loaded grid with optional label hints.
func (p *Processor) ProcessGrid(ctx context.Context, source string, g *grid.Grid, labels []model.LabelHint) (*model.TrialBalanceResult, error) {
	run := p.newRun(source)
	if len(labels) > 0 {
		run.Log.Info("Using supplied label hints", map[string]any{
			"count":     len(labels),
			"confirmed": hints.Confirms(labels, p.config.MinHintConfidence),
		})
	}
	return p.process(ctx, run, g, labels)
}

func (p *Processor) fetchHints(ctx context.Context, run *Run, filename string, data []byte) []model.LabelHint {
	if p.hints == nil {
		return nil
	}

	timeout := p.config.HintTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().HintTimeout
	}
	hintCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	labels, err := p.hints.Hints(hintCtx, filename, data)
	if err != nil {
		run.Log.Warning("Label hints unavailable, continuing without them", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	run.Log.Info("Received label hints", map[string]any{
		"count":     len(labels),
		"confirmed": hints.Confirms(labels, p.config.MinHintConfidence),
	})
	return labels
}

func (p *Processor) process(ctx context.Context, run *Run, g *grid.Grid, labels []model.LabelHint) (*model.TrialBalanceResult, error) {
	run.Log.Info("Processing started", map[string]any{
		"source": run.SourceName,
		"sheet":  g.Sheet,
		"range":  g.Range(),
	})

	tables, err := p.detector.Detect(g, labels)
	if err != nil {
		run.Log.Error(common.MsgNoTables, map[string]any{"sheet": g.Sheet})
		return nil, err
	}
	run.Tables = tables

	for _, t := range tables {
		run.Log.Info("Detected table", map[string]any{
			"name":       t.Name,
			"type":       string(t.Type),
			"range":      t.Range,
			"rows":       t.RowCount,
			"confidence": t.Confidence,
		})
	}

	primary := tables[0]
	if primary.RowCount == 0 {
		run.Log.Error(common.MsgNoData, map[string]any{"table": primary.Name})
		return nil, common.DataError()
	}

	cols := mapColumns(primary.Headers, hints.Columns(labels, p.config.MinHintConfidence))
	run.Log.Info("Mapped columns", cols.details(primary.Headers))

	if err := p.scanRows(ctx, run, g, primary, cols); err != nil {
		return nil, err
	}

	return p.assemble(run), nil
}

func (p *Processor) scanRows(ctx context.Context, run *Run, g *grid.Grid, table model.DetectedTable, cols columns) error {
	total := table.LastRow - table.HeaderRow

	for r := table.HeaderRow + 1; r <= table.LastRow; r++ {
		if err := ctx.Err(); err != nil {
			run.Log.Warning("Processing cancelled", map[string]any{"row": sheetRow(g, r)})
			return fmt.Errorf("processing cancelled: %w", err)
		}

		p.processRow(run, g, table, cols, r)

		run.scannedRows++
		if p.progress != nil {
			p.progress(run.scannedRows, total)
		}
	}
	return nil
}

func (p *Processor) assemble(run *Run) *model.TrialBalanceResult {
	totals := run.Totals
	balanced := totals.IsBalanced()

	details := map[string]any{
		"total_debits":  totals.TotalDebits().StringFixed(2),
		"total_credits": totals.TotalCredits().StringFixed(2),
		"entries":       len(run.Entries),
	}
	if balanced {
		run.Log.Info("Trial balance is balanced", details)
	} else {
		details["difference"] = totals.TotalDebits().Sub(totals.TotalCredits()).StringFixed(2)
		run.Log.Warning("Trial balance does not balance", details)
	}

	if n := len(run.Uncertain); n > 0 {
		run.Log.Info("Accounts need review", map[string]any{
			"uncertain": n,
			"unmatched": len(run.Unmatched),
		})
	}

	return &model.TrialBalanceResult{
		RunID:                    run.ID,
		SourceName:               run.SourceName,
		Entries:                  run.Entries,
		TotalDebits:              totals.TotalDebits(),
		TotalCredits:             totals.TotalCredits(),
		IsBalanced:               balanced,
		DetectedTables:           run.Tables,
		ProcessingLogs:           run.Log.Entries(),
		UncertainClassifications: run.Uncertain,
		UnmatchedEntries:         run.Unmatched,
		TotalsSummary:            totals.Summaries(),
	}
}

// sheetRow converts a grid row to the 1-based row number shown in the sheet.
func sheetRow(g *grid.Grid, r int) int {
	return g.OriginRow + r + 1
}
