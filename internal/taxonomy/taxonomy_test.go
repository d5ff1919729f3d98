package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tax := Default()
	require.NotNil(t, tax)
	assert.Same(t, tax, Default(), "default taxonomy should be built once")

	acct, ok := tax.Lookup("1000")
	require.True(t, ok)
	assert.Equal(t, "Assets", acct.Primary)
	assert.Equal(t, "Current Assets", acct.Secondary)
	assert.Equal(t, "Cash and Cash Equivalents", acct.Tertiary)

	_, ok = tax.Lookup("9999")
	assert.False(t, ok)

	assert.Len(t, tax.Codes(), len(DefaultChart()))
}

func TestDefault_KeywordsAreLowerCase(t *testing.T) {
	tax := Default()
	tax.Walk(func(primary, secondary string, leaf Leaf) {
		for _, kw := range leaf.Keywords {
			assert.Equal(t, strings.ToLower(kw), kw, "%s > %s > %s", primary, secondary, leaf.Name)
		}
	})
}

func TestDefault_ChartMatchesHierarchy(t *testing.T) {
	tax := Default()

	leaves := make(map[string]bool)
	tax.Walk(func(primary, secondary string, leaf Leaf) {
		leaves[primary+"|"+secondary+"|"+leaf.Name] = true
	})

	for _, acct := range tax.Chart() {
		key := acct.Primary + "|" + acct.Secondary + "|" + acct.Tertiary
		assert.True(t, leaves[key], "chart code %s points at unknown leaf %s", acct.Code, key)
	}
}

func TestPrimaryFor(t *testing.T) {
	tax := Default()

	primary, ok := tax.PrimaryFor("petty cash float")
	require.True(t, ok)
	assert.Equal(t, "Assets", primary)

	_, ok = tax.PrimaryFor("miscellaneous gains")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		errMsg     string
		categories []Category
		chart      []Account
	}{
		{
			name:       "missing category name",
			categories: []Category{{}},
			errMsg:     "category name is required",
		},
		{
			name: "leaf without keywords",
			categories: []Category{{
				Name:   "Assets",
				Groups: []Group{{Name: "Current", Accounts: []Leaf{{Name: "Cash"}}}},
			}},
			errMsg: "has no keywords",
		},
		{
			name:   "duplicate code",
			chart:  []Account{{Code: "1000", Primary: "Assets"}, {Code: " 1000 ", Primary: "Assets"}},
			errMsg: "duplicate account code",
		},
		{
			name:   "blank code",
			chart:  []Account{{Code: " ", Tertiary: "Cash"}},
			errMsg: "has no code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.categories, DocumentKeywords{}, tt.chart)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParse_OverridesAndDefaults(t *testing.T) {
	doc := `
categories:
  - name: Assets
    groups:
      - name: Current Assets
        accounts:
          - name: Crypto
            keywords: [Bitcoin, Wallet]
chart:
  - code: "1900"
    primary: Assets
    secondary: Current Assets
    tertiary: Crypto
`
	tax, err := Parse([]byte(doc))
	require.NoError(t, err)

	require.Len(t, tax.Categories(), 1)
	assert.Equal(t, []string{"bitcoin", "wallet"}, tax.Categories()[0].Groups[0].Accounts[0].Keywords)
	assert.Equal(t, []string{"1900"}, tax.Codes())
	assert.Equal(t, DefaultDocumentKeywords().TrialBalance, tax.Documents().TrialBalance)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents:\n  trialBalance: [TB]\n"), 0o600))

	tax, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tb"}, tax.Documents().TrialBalance)
	assert.Empty(t, tax.Documents().BalanceSheet)
	assert.NotEmpty(t, tax.Categories())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("categories: [[["), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestDocumentKeywords_All(t *testing.T) {
	d := DocumentKeywords{TrialBalance: []string{"a"}, BalanceSheet: []string{"b"}, IncomeStatement: []string{"c"}}
	assert.Equal(t, []string{"a", "b", "c"}, d.All())
}
