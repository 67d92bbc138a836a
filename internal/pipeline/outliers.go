package pipeline

import (
	"fmt"

	"cleanbot/internal/dataset"
	"cleanbot/internal/stats"
)

// IQRFactor scales the interquartile range when computing outlier bounds.
// Part of the script synthesizer contract.
const IQRFactor = 1.5

// outlierReplace neutralizes numeric outliers in place: for each
// numeric-storage column it computes Q1/Q3 by linear interpolation, flags
// values strictly outside [Q1 − 1.5·IQR, Q3 + 1.5·IQR], and replaces them
// with the column median computed before any replacement.
//
// A zero-variance column has IQR = 0, so any value ≠ median is flagged.
// That is intentional and must stay.
type outlierReplace struct{}

func (outlierReplace) name() string { return StepOutliers }

func (outlierReplace) apply(ds *dataset.Dataset, sum *Summary) (*dataset.Dataset, string) {
	out := ds.Clone()
	replaced := 0
	for _, col := range out.Columns {
		if !out.NumericColumn(col) {
			continue
		}

		nums := make([]float64, 0, out.NumRows())
		for _, row := range out.Rows {
			if f, ok := row[col].Number(); ok {
				nums = append(nums, f)
			}
		}

		q1, ok := stats.Quantile(nums, 0.25)
		if !ok {
			continue
		}
		q3, _ := stats.Quantile(nums, 0.75)
		med, _ := stats.Median(nums)

		iqr := q3 - q1
		lower := q1 - IQRFactor*iqr
		upper := q3 + IQRFactor*iqr

		for _, row := range out.Rows {
			f, isNum := row[col].Number()
			if !isNum {
				continue
			}
			if f < lower || f > upper {
				row[col] = dataset.Number(med)
				replaced++
			}
		}
	}
	sum.OutliersReplaced = replaced
	return out, fmt.Sprintf("Detected and replaced %d outliers using IQR method", replaced)
}
