package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/export"
	"github.com/Veraticus/tally/internal/hints"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/sheets"
)

var errNoSource = errors.New("provide a spreadsheet file or --google-sheet")

type processOptions struct {
	sheetID    string
	format     string
	output     string
	hintsFile  string
	noProgress bool
}

func processCmd() *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Extract and classify a trial balance",
		Long: `Read the first worksheet of an .xlsx, .xls or .csv file (or a Google Sheet),
detect the financial tables in it, classify every account, and write the result.

JSON goes to stdout unless --output is given; workbooks default to <file>-tally.xlsx.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sheetID, "google-sheet", "", "Google spreadsheet ID to read instead of a file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format (json, xlsx)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&opts.hintsFile, "hints-file", "", "JSON file with column label hints")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "hide the row progress bar")
	cmd.Flags().String("hints-url", "", "label service endpoint")

	_ = viper.BindPFlag("hints.url", cmd.Flags().Lookup("hints-url"))

	return cmd
}

func runProcess(cmd *cobra.Command, args []string, opts *processOptions) error {
	if opts.format != "json" && opts.format != "xlsx" {
		return fmt.Errorf("unsupported output format %q", opts.format)
	}
	if (len(args) == 0) == (opts.sheetID == "") {
		return errNoSource
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := interrupts.HandleInterrupts(cmd.Context())
	defer stop()

	var engineOpts []engine.Option
	var progress *cli.Progress
	if !opts.noProgress {
		progress = cli.NewProgress(cmd.ErrOrStderr(), "Scanning rows")
		engineOpts = append(engineOpts, engine.WithProgress(progress.Update))
	}

	processor, err := newProcessor(opts.hintsFile, engineOpts...)
	if err != nil {
		return err
	}

	var result *model.TrialBalanceResult
	var source string
	if opts.sheetID != "" {
		source = opts.sheetID
		result, err = processSheet(ctx, processor, opts)
	} else {
		source = args[0]
		result, err = processFile(ctx, processor, source)
	}
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderSummary(result))
	return writeOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, source, result)
}

func processFile(ctx context.Context, processor *engine.Processor, path string) (*model.TrialBalanceResult, error) {
	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return processor.ProcessFile(ctx, filepath.Base(path), data)
}

func processSheet(ctx context.Context, processor *engine.Processor, opts *processOptions) (*model.TrialBalanceResult, error) {
	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid Google Sheets config: %w", err)
	}

	reader, err := sheets.NewReader(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return nil, err
	}
	g, err := reader.Read(ctx, opts.sheetID)
	if err != nil {
		return nil, err
	}

	var labels []model.LabelHint
	if opts.hintsFile != "" {
		labels, err = hints.FileProvider{Path: config.ExpandPath(opts.hintsFile)}.Hints(ctx, opts.sheetID, nil)
		if err != nil {
			return nil, err
		}
	}
	return processor.ProcessGrid(ctx, opts.sheetID, g, labels)
}

func writeOutput(stdout, stderr io.Writer, opts *processOptions, source string, result *model.TrialBalanceResult) error {
	var writer service.ResultWriter = export.JSONWriter{Indent: true}
	output := opts.output
	if opts.format == "xlsx" {
		writer = export.NewWorkbookWriter()
		if output == "" {
			base := filepath.Base(source)
			output = strings.TrimSuffix(base, filepath.Ext(base)) + "-tally.xlsx"
		}
	}

	if output == "" {
		return writer.Write(stdout, result)
	}

	f, err := os.Create(config.ExpandPath(output))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := writer.Write(f, result); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Fprintln(stderr, cli.FormatSuccess("Wrote "+output))
	return nil
}
