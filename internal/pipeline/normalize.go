package pipeline

import (
	"fmt"
	"strings"

	"cleanbot/internal/dataset"
)

// stringNormalize trims and lowercases text cells in textual columns.
//
// Numeric-storage columns are skipped wholesale; within a textual column,
// only cells that actually hold text are touched (numbers and absent cells
// pass through, and no cell's absence status changes).
type stringNormalize struct{}

func (stringNormalize) name() string { return StepNormalize }

func (stringNormalize) apply(ds *dataset.Dataset, _ *Summary) (*dataset.Dataset, string) {
	out := ds.Clone()
	changed := 0
	for _, col := range out.Columns {
		if out.NumericColumn(col) {
			continue
		}
		for _, row := range out.Rows {
			s, ok := row[col].Text()
			if !ok {
				continue
			}
			ns := strings.ToLower(strings.TrimSpace(s))
			if ns != s {
				row[col] = dataset.Text(ns)
				changed++
			}
		}
	}
	return out, fmt.Sprintf("Trimmed and normalized %d string values", changed)
}
