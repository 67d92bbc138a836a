package pipeline

import (
	"fmt"

	"cleanbot/internal/classify"
	"cleanbot/internal/dataset"
	"cleanbot/internal/stats"
)

// missingImpute fills absent cells, per column, with a policy keyed by the
// column's kind:
//
//   - numeric storage: the median of the numerically coerced values; when
//     no median exists the column's mode; when neither exists the column is
//     left untouched.
//   - classified date: forward-fill from the nearest preceding value, then
//     backward-fill any gap left at the start. This stage must run after
//     date normalization, which this branch's values rely on.
//   - everything else: the column's mode, or empty text for a column with
//     no mode.
//
// The fallback cascade in the numeric branch is observable behavior and is
// kept even though it only triggers when numeric coercion fails for every
// value of a numeric-storage column.
type missingImpute struct{}

func (missingImpute) name() string { return StepMissing }

func (missingImpute) apply(ds *dataset.Dataset, sum *Summary) (*dataset.Dataset, string) {
	out := ds.Clone()
	handled := 0
	for _, col := range out.Columns {
		values := out.Column(col)
		missing := 0
		for _, v := range values {
			if v.IsAbsent() {
				missing++
			}
		}
		if missing == 0 {
			continue
		}

		if out.NumericColumn(col) {
			handled += imputeNumeric(out, col, values, missing)
			continue
		}

		switch classify.Classify(values) {
		case classify.Date:
			out.SetColumn(col, fillForwardBackward(values))
			handled += missing
		default:
			fill, ok := stats.Mode(values)
			if !ok {
				fill = dataset.Text("")
			}
			fillAbsent(out, col, fill)
			handled += missing
		}
	}
	sum.MissingValuesHandled = handled
	return out, fmt.Sprintf("Handled %d missing values", handled)
}

// imputeNumeric fills a numeric-storage column and returns how many cells
// it filled (zero when the fallback cascade bottoms out).
func imputeNumeric(ds *dataset.Dataset, col string, values []dataset.Value, missing int) int {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := classify.ParseNumber(v); ok {
			nums = append(nums, f)
		}
	}
	if med, ok := stats.Median(nums); ok {
		fillAbsent(ds, col, dataset.Number(med))
		return missing
	}
	if mode, ok := stats.Mode(values); ok {
		fillAbsent(ds, col, mode)
		return missing
	}
	return 0
}

// fillAbsent writes fill into every absent cell of the column.
func fillAbsent(ds *dataset.Dataset, col string, fill dataset.Value) {
	for _, row := range ds.Rows {
		if row[col].IsAbsent() {
			row[col] = fill
		}
	}
}

// fillForwardBackward propagates the nearest preceding present value
// forward, then sweeps backward to cover absent cells at the start.
func fillForwardBackward(values []dataset.Value) []dataset.Value {
	out := make([]dataset.Value, len(values))
	copy(out, values)

	last := dataset.Absent()
	for i, v := range out {
		if !v.IsAbsent() {
			last = v
			continue
		}
		if !last.IsAbsent() {
			out[i] = last
		}
	}

	next := dataset.Absent()
	for i := len(out) - 1; i >= 0; i-- {
		if !out[i].IsAbsent() {
			next = out[i]
			continue
		}
		if !next.IsAbsent() {
			out[i] = next
		}
	}
	return out
}
