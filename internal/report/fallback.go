package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
)

// Fallback renders the deterministic report from the summary counters
// alone. It is used whenever the narrative generator is absent, slow, or
// failing, and in tests as a stable baseline.
func Fallback(in Input) string {
	var buf strings.Builder
	md := markdown.NewMarkdown(&buf)

	sum := in.Summary
	pct := float64(sum.RowsRemoved) / float64(max(sum.OriginalRows, 1)) * 100

	md.H2("Data Cleaning Report")
	md.PlainText("")

	md.H3("Summary of Operations")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Original records", strconv.Itoa(sum.OriginalRows)},
			{"Cleaned records", strconv.Itoa(sum.CleanedRows)},
			{"Records removed", fmt.Sprintf("%d (%.1f%%)", sum.RowsRemoved, pct)},
			{"Columns", strconv.Itoa(sum.Columns)},
		},
	})
	md.PlainText("")

	md.H3("Data Quality Improvements")
	md.Table(markdown.TableSet{
		Header: []string{"Operation", "Count"},
		Rows: [][]string{
			{"Duplicate rows removed", strconv.Itoa(sum.DuplicatesRemoved)},
			{"Missing values fixed", strconv.Itoa(sum.MissingValuesHandled)},
			{"Outliers replaced", strconv.Itoa(sum.OutliersReplaced)},
			{"Date columns fixed", strconv.Itoa(sum.DateColumnsFixed)},
		},
	})
	md.PlainText("")

	md.H3("Steps Performed")
	for _, step := range in.Steps {
		md.PlainText("- " + step.Description)
	}
	md.PlainText("")

	md.H3("Recommendations")
	md.PlainText("1. Review the cleaned data to ensure quality meets your requirements.")
	md.PlainText("2. Validate date conversions to confirm accuracy.")
	md.PlainText("3. Check categorical values for consistency.")
	md.PlainText("4. Consider domain-specific rules that may need additional cleaning.")

	if err := md.Build(); err != nil {
		// The writer is in-memory; Build cannot realistically fail, but keep
		// the report usable if it ever does.
		return buf.String()
	}
	return strings.TrimSpace(buf.String())
}
