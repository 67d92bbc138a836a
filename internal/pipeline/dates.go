package pipeline

import (
	"fmt"

	"cleanbot/internal/classify"
	"cleanbot/internal/dataset"
)

// DateFixThreshold is the minimum parse-success fraction, measured over all
// rows (not just non-absent ones), required before a date column is
// rewritten. Below it the column is left completely untouched: partial
// conversion of a column that merely resembles dates in a minority of rows
// would corrupt it. Part of the script synthesizer contract.
const DateFixThreshold = 0.7

// canonicalDateLayout is the format date columns are rewritten to.
const canonicalDateLayout = "2006-01-02"

// dateNormalize rewrites date-classified columns to canonical YYYY-MM-DD.
// Values that fail to parse become absent in a converted column; columns
// under the threshold keep every value as-is.
type dateNormalize struct{}

func (dateNormalize) name() string { return StepFixDates }

func (dateNormalize) apply(ds *dataset.Dataset, sum *Summary) (*dataset.Dataset, string) {
	out := ds.Clone()
	fixed := 0
	rows := out.NumRows()
	for _, col := range out.Columns {
		values := out.Column(col)
		if classify.Classify(values) != classify.Date || rows == 0 {
			continue
		}

		converted := make([]dataset.Value, rows)
		parsed := 0
		for i, v := range values {
			t, ok := classify.ParseDate(v)
			if !ok {
				converted[i] = dataset.Absent()
				continue
			}
			converted[i] = dataset.Text(t.Format(canonicalDateLayout))
			parsed++
		}

		if float64(parsed)/float64(rows) > DateFixThreshold {
			out.SetColumn(col, converted)
			fixed++
		}
	}
	sum.DateColumnsFixed = fixed
	return out, fmt.Sprintf("Fixed %d date columns to YYYY-MM-DD format", fixed)
}
