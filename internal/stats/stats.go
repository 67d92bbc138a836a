// Package stats holds the small numeric helpers the cleaning stages share:
// median, linear-interpolation quantiles, and mode.
package stats

import (
	"sort"

	"cleanbot/internal/dataset"
)

// Median returns the median of xs. ok is false when xs is empty.
func Median(xs []float64) (float64, bool) {
	return Quantile(xs, 0.5)
}

// Quantile returns the q-quantile (0 ≤ q ≤ 1) of xs using linear
// interpolation between closest ranks, the same estimator dataframe
// libraries default to. ok is false when xs is empty.
func Quantile(xs []float64, q float64) (float64, bool) {
	n := len(xs)
	if n == 0 {
		return 0, false
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0], true
	}
	if q >= 1 {
		return sorted[n-1], true
	}
	pos := q * float64(n-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1], true
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), true
}

// Mode returns the most frequent non-absent value. Ties break toward the
// smallest value (numbers by magnitude, text lexicographically, numbers
// before text), matching how the mode of a mixed series is conventionally
// reported. ok is false when no non-absent value exists.
func Mode(values []dataset.Value) (dataset.Value, bool) {
	counts := make(map[dataset.Value]int)
	for _, v := range values {
		if v.IsAbsent() {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return dataset.Absent(), false
	}

	var best dataset.Value
	bestCount := -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && less(v, best)) {
			best = v
			bestCount = c
		}
	}
	return best, true
}

// less orders values for mode tie-breaking.
func less(a, b dataset.Value) bool {
	an, aNum := a.Number()
	bn, bNum := b.Number()
	switch {
	case aNum && bNum:
		return an < bn
	case aNum != bNum:
		return aNum
	}
	as, _ := a.Text()
	bs, _ := b.Text()
	return as < bs
}
