package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/taxonomy"
)

const balancedCSV = "Account Code,Account Name,Debit,Credit\n1000,Cash,5000,\n2000,Accounts Payable,,5000\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, newCmd func() *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	cmd := newCmd()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestProcess_JSONToStdout(t *testing.T) {
	path := writeFile(t, "tb.csv", balancedCSV)

	stdout, stderr, err := execute(t, processCmd, path, "--no-progress")
	require.NoError(t, err)

	var result model.TrialBalanceResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "tb.csv", result.SourceName)
	assert.Len(t, result.Entries, 2)
	assert.True(t, result.IsBalanced)
	assert.Contains(t, stderr, "Trial Balance Processed")
}

func TestProcess_WorkbookOutput(t *testing.T) {
	path := writeFile(t, "tb.csv", balancedCSV)
	output := filepath.Join(t.TempDir(), "out.xlsx")

	stdout, stderr, err := execute(t, processCmd, path, "--format", "xlsx", "--output", output)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Wrote "+output)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), "Trial Balance")
}

func TestProcess_HintsFile(t *testing.T) {
	path := writeFile(t, "balance.csv", "Compte;Montant D;Montant C\nCaisse;250;\nCapital social;;250\n")
	hintsPath := writeFile(t, "hints.json", `[
		{"text":"Compte","type":"account_description","confidence":0.9},
		{"text":"Montant D","type":"debit","confidence":0.9},
		{"text":"Montant C","type":"credit","confidence":0.9}
	]`)

	stdout, _, err := execute(t, processCmd, path, "--hints-file", hintsPath, "--no-progress")
	require.NoError(t, err)

	var result model.TrialBalanceResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "Caisse", result.Entries[0].AccountName)
}

func TestProcess_Errors(t *testing.T) {
	csvPath := writeFile(t, "tb.csv", balancedCSV)
	notesPath := writeFile(t, "notes.csv", "Notes\nhello\nworld\n")

	tests := []struct {
		wantErr error
		name    string
		wantMsg string
		args    []string
	}{
		{name: "no source", args: nil, wantErr: errNoSource},
		{name: "file and sheet", args: []string{csvPath, "--google-sheet", "abc"}, wantErr: errNoSource},
		{name: "bad format", args: []string{csvPath, "--format", "pdf"}, wantMsg: `unsupported output format "pdf"`},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.csv")}, wantMsg: "failed to read"},
		{name: "no tables", args: []string{notesPath, "--no-progress"}, wantErr: common.ErrNoTables},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, processCmd, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestTaxonomy_YAML(t *testing.T) {
	stdout, _, err := execute(t, taxonomyCmd, "--yaml")
	require.NoError(t, err)

	tax, err := taxonomy.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Default().Chart(), tax.Chart())
}

func TestTaxonomy_Render(t *testing.T) {
	stdout, _, err := execute(t, taxonomyCmd)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Account Taxonomy")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, versionCmd)
	require.NoError(t, err)
	assert.Equal(t, "tally dev\n", stdout)
}
