package classification

import (
	"testing"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/similarity"
	"github.com/Veraticus/tally/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScorer always returns the same match.
type stubScorer struct {
	match similarity.Match
}

func (s stubScorer) BestMatch(string, []string) similarity.Match {
	return s.match
}

func TestClassify_ExactCode(t *testing.T) {
	c := New(taxonomy.Default())
	mem := NewMemory()

	res := c.Classify(mem, "1000", "Cash")

	assert.Equal(t, "Assets", res.Best.Primary)
	assert.Equal(t, "Current Assets", res.Best.Secondary)
	assert.Equal(t, "Cash and Cash Equivalents", res.Best.Tertiary)
	assert.Equal(t, 1.0, res.Best.Confidence)
	assert.Empty(t, res.Alternatives)
	assert.Nil(t, res.Unmatched)
	assert.False(t, res.Uncertain())

	remembered, ok := mem.Lookup("1000")
	require.True(t, ok)
	assert.Equal(t, res.Best, remembered.Classification)
}

func TestClassify_Fallback(t *testing.T) {
	c := New(taxonomy.Default())
	mem := NewMemory()

	res := c.Classify(mem, "9999", "Miscellaneous Gains")

	assert.Equal(t, 0.3, res.Best.Confidence)
	assert.Equal(t, model.Uncategorized, res.Best.Primary)
	assert.Equal(t, model.NeedsReview, res.Best.Secondary)
	assert.Equal(t, model.Unclassified, res.Best.Tertiary)
	require.NotNil(t, res.Unmatched)
	assert.Equal(t, "9999", res.Unmatched.AccountCode)
	assert.Equal(t, "Miscellaneous Gains", res.Unmatched.AccountName)
	assert.NotEmpty(t, res.Unmatched.Reason)
	assert.True(t, res.Uncertain())
	assert.Equal(t, 0, mem.Len(), "fallback results are not remembered")
}

func TestClassify_HeuristicCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Other Assets", want: "Assets"},
		{name: "Fixed asset clearing", want: "Assets"},
		{name: "Loan Liability", want: "Liabilities"},
		{name: "Sundry Income", want: "Revenue"},
		{name: "Freight Costs", want: "Expenses"},
		{name: "Owner Capital Contribution", want: "Equity"},
		{name: "Suspense", want: model.Uncategorized},
	}

	c := New(taxonomy.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(NewMemory(), "X9", tt.name)
			require.NotNil(t, res.Unmatched)
			assert.Equal(t, tt.want, res.Best.Primary)
		})
	}
}

func TestClassify_PrefixBeatsFuzzyAndKeywords(t *testing.T) {
	c := New(taxonomy.Default())

	res := c.Classify(NewMemory(), "2150", "Accrued wages")

	assert.Equal(t, "Accrued Liabilities", res.Best.Tertiary)
	assert.Equal(t, 0.8, res.Best.Confidence)
	assert.Contains(t, res.Best.Reasoning, "prefix 21")
	require.Len(t, res.Alternatives, 3)
	assert.Equal(t, "Accrued Liabilities", res.Alternatives[0].Tertiary)
	assert.Contains(t, res.Alternatives[0].Reasoning, "accrued")
	assert.InDelta(t, 0.8, res.Alternatives[0].Confidence, 1e-9)
	assert.Equal(t, "Accrued Liabilities", res.Alternatives[1].Tertiary)
	assert.Equal(t, 0.7, res.Alternatives[1].Confidence)
	assert.Equal(t, "Salaries and Wages", res.Alternatives[2].Tertiary)
	assert.InDelta(t, 0.55, res.Alternatives[2].Confidence, 1e-9)
	assert.Nil(t, res.Unmatched)
	assert.True(t, res.Uncertain())
}

func TestClassify_KeywordConfidence(t *testing.T) {
	c := New(taxonomy.Default())

	res := c.Classify(NewMemory(), "", "Accounts Receivable - Trade Debtors")
	assert.Equal(t, "Accounts Receivable", res.Best.Tertiary)
	assert.Equal(t, 0.8, res.Best.Confidence)
	assert.Contains(t, res.Best.Reasoning, "receivable")

	res = c.Classify(NewMemory(), "", "Office supplies")
	assert.Equal(t, "Office Expenses", res.Best.Tertiary)
	assert.InDelta(t, 0.8, res.Best.Confidence, 1e-9)

	res = c.Classify(NewMemory(), "", "Electricity")
	assert.Equal(t, "Utilities", res.Best.Tertiary)
	assert.InDelta(t, 0.55, res.Best.Confidence, 1e-9)
	assert.True(t, res.Uncertain())
}

func TestClassify_TiesKeepEarlierStrategy(t *testing.T) {
	scorer := stubScorer{match: similarity.Match{Target: "2000", Index: 7, Rating: 0.9}}
	c := New(taxonomy.Default(), WithScorer(scorer))

	mem := NewMemory()
	mem.Remember("ZZ0", "Zeta Corp", model.AccountClassification{
		Primary: "Equity", Secondary: "Owner's Equity", Tertiary: "Share Capital", Confidence: 0.8,
	})

	res := c.Classify(mem, "ZZ1", "Zeta holdings")

	assert.Equal(t, "Accounts Payable", res.Best.Tertiary, "fuzzy code ran first and ties are not overwritten")
	assert.Equal(t, 0.7, res.Best.Confidence)
	require.Len(t, res.Alternatives, 1)
	assert.Equal(t, "Share Capital", res.Alternatives[0].Tertiary)
	assert.Equal(t, 0.7, res.Alternatives[0].Confidence)
}

func TestClassify_RunMemoryDoesNotLeak(t *testing.T) {
	c := New(taxonomy.Default())

	runA := NewMemory()
	first := c.Classify(runA, "Z-10", "Zeta Office")
	require.Equal(t, "Office Expenses", first.Best.Tertiary)

	inA := c.Classify(runA, "Z-11", "Zeta Holdings")
	assert.Equal(t, "Office Expenses", inA.Best.Tertiary)
	assert.Equal(t, 0.7, inA.Best.Confidence)
	assert.Contains(t, inA.Best.Reasoning, "Z-10")

	runB := NewMemory()
	inB := c.Classify(runB, "Z-11", "Zeta Holdings")
	assert.Equal(t, 0.3, inB.Best.Confidence)
	assert.Empty(t, inB.Alternatives)
	assert.NotNil(t, inB.Unmatched)
}

func TestClassify_AlternativesTruncated(t *testing.T) {
	c := New(taxonomy.Default())

	res := c.Classify(NewMemory(), "", "Cash, receivable, inventory, prepaid and office")
	assert.LessOrEqual(t, len(res.Alternatives), 3)
	for i := 1; i < len(res.Alternatives); i++ {
		assert.GreaterOrEqual(t, res.Alternatives[i-1].Confidence, res.Alternatives[i].Confidence)
	}
}

func TestClassify_SamePathCandidatesStayAlternatives(t *testing.T) {
	c := New(taxonomy.Default())

	res := c.Classify(NewMemory(), "1050", "Cash at bank")

	assert.Equal(t, "Cash and Cash Equivalents", res.Best.Tertiary)
	assert.Equal(t, 0.8, res.Best.Confidence)
	require.Len(t, res.Alternatives, 2)
	assert.True(t, res.Uncertain())

	var samePath int
	for _, alt := range res.Alternatives {
		assert.NotEqual(t, res.Best, alt)
		if alt.Path() == res.Best.Path() {
			samePath++
		}
	}
	assert.Positive(t, samePath)
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	c := New(taxonomy.Default())
	mem := NewMemory()
	accounts := [][2]string{
		{"1000", "Cash"}, {"1001", "Cash at bank"}, {"4000", "Sales"}, {"", "Bank charges"},
		{"9999", "Miscellaneous Gains"}, {"6", "Rent expense office rent lease"},
	}

	for _, a := range accounts {
		res := c.Classify(mem, a[0], a[1])
		require.NoError(t, res.Best.Validate())
		require.NoError(t, res.Alternatives.Validate())
	}
}

func TestMemory_LatestWriteWins(t *testing.T) {
	mem := NewMemory()
	mem.Remember("1000", "Cash", model.AccountClassification{Primary: "Assets", Confidence: 1})
	mem.Remember("2000", "Payables", model.AccountClassification{Primary: "Liabilities", Confidence: 1})
	mem.Remember("1000", "Cash on hand", model.AccountClassification{Primary: "Assets", Tertiary: "Cash", Confidence: 1})

	assert.Equal(t, 2, mem.Len())
	got, ok := mem.Lookup("1000")
	require.True(t, ok)
	assert.Equal(t, "Cash on hand", got.Name)

	first, ok := mem.FirstSharingWord("HAND tools")
	require.True(t, ok)
	assert.Equal(t, "1000", first.Code)

	_, ok = mem.FirstSharingWord("   ")
	assert.False(t, ok)
}
