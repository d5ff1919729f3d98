package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/taxonomy"
)

// maxReviewLines caps how many review items the summary lists.
const maxReviewLines = 10

// RenderSummary renders a run result for the terminal.
func RenderSummary(result *model.TrialBalanceResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Source:"), result.SourceName)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Run:"), SubtleStyle.Render(result.RunID))
	fmt.Fprintf(&b, "  • Tables detected: %d\n", len(result.DetectedTables))
	for _, table := range result.DetectedTables {
		fmt.Fprintf(&b, "    - %s %s %s (%.0f%%)\n",
			table.Name, table.Type, table.Range, table.Confidence*100)
	}
	fmt.Fprintf(&b, "  • Entries: %d\n", len(result.Entries))
	fmt.Fprintf(&b, "  • Total debits: %s\n", result.TotalDebits.StringFixed(2))
	fmt.Fprintf(&b, "  • Total credits: %s\n", result.TotalCredits.StringFixed(2))

	if result.IsBalanced {
		b.WriteString(FormatSuccess("Trial balance is balanced") + "\n")
	} else {
		b.WriteString(FormatWarning(fmt.Sprintf("Out of balance by %s", result.Difference().StringFixed(2))) + "\n")
	}

	if len(result.TotalsSummary) > 0 {
		b.WriteString("\n" + TableHeaderStyle.Render("Totals") + "\n")
		for _, total := range result.TotalsSummary {
			fmt.Fprintf(&b, "%s%s%s\n",
				TableCellStyle.Render(total.Category),
				TableCellStyle.Render(total.Name),
				total.Amount.StringFixed(2))
		}
	}

	if review := result.NeedsReviewCount(); review > 0 {
		b.WriteString("\n" + FormatWarning(fmt.Sprintf("%d accounts need review", review)) + "\n")
		b.WriteString(renderReview(result))
	}

	return RenderBox(FormatTitle("Trial Balance Processed"), b.String())
}

func renderReview(result *model.TrialBalanceResult) string {
	var b strings.Builder
	lines := 0
	for _, u := range result.UncertainClassifications {
		if lines == maxReviewLines {
			break
		}
		fmt.Fprintf(&b, "  %s %s → %s (%.0f%%)\n",
			u.Entry.AccountCode, u.Entry.AccountName,
			u.Entry.Classification.Path(), u.Entry.Classification.Confidence*100)
		lines++
	}
	for _, u := range result.UnmatchedEntries {
		if lines == maxReviewLines {
			break
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", u.AccountCode, u.AccountName, SubtleStyle.Render(u.Reason))
		lines++
	}
	if more := len(result.UncertainClassifications) + len(result.UnmatchedEntries) - lines; more > 0 {
		fmt.Fprintf(&b, "  %s\n", SubtleStyle.Render(fmt.Sprintf("... and %d more", more)))
	}
	return b.String()
}

// RenderTaxonomy lists the classification hierarchy and chart size.
func RenderTaxonomy(tax *taxonomy.Taxonomy) string {
	var b strings.Builder
	lastPrimary, lastSecondary := "", ""
	tax.Walk(func(primary, secondary string, leaf taxonomy.Leaf) {
		if primary != lastPrimary {
			b.WriteString(BoldStyle.Render(primary) + "\n")
			lastPrimary, lastSecondary = primary, ""
		}
		if secondary != lastSecondary {
			fmt.Fprintf(&b, "  %s\n", secondary)
			lastSecondary = secondary
		}
		fmt.Fprintf(&b, "    - %s %s\n", leaf.Name,
			SubtleStyle.Render("("+strings.Join(leaf.Keywords, ", ")+")"))
	})
	fmt.Fprintf(&b, "\n%s\n", FormatInfo(fmt.Sprintf("%d accounts in the standard chart", len(tax.Chart()))))
	return RenderBox(FormatTitle("Account Taxonomy"), b.String())
}
