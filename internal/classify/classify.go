// Package classify infers a per-column category from a column's values.
//
// The category drives every cleaning stage: it decides which columns get
// string normalization, date rewriting, which imputation policy applies, and
// which columns are eligible for outlier replacement. Classification is
// recomputed whenever a stage needs it; it is never cached across dataset
// mutations, since earlier stages change the values.
package classify

import (
	"strconv"
	"strings"
	"time"

	"cleanbot/internal/dataset"
)

// Kind is a column category.
type Kind string

const (
	Numeric     Kind = "numeric"
	Date        Kind = "date"
	Categorical Kind = "categorical"
	String      Kind = "string"
	Unknown     Kind = "unknown"
)

// Detection thresholds. These are a cross-cutting contract: the generated
// replay script embeds the same constants, so live pipeline and script must
// agree byte for byte.
const (
	// NumericThreshold is the fraction of non-absent values that must parse
	// as numbers for a column to be numeric. Strictly exceeded, not met.
	NumericThreshold = 0.8

	// DateThreshold is the same for calendar dates, tested only after the
	// numeric test fails. A value like "20230101" parses both ways and is
	// therefore numeric.
	DateThreshold = 0.8

	// CategoricalUniqueness is the distinct/total ratio below which a
	// column is categorical. Exactly 0.5 is not below, so a 4-row column
	// with 2 distinct values (ratio 0.5) classifies as string.
	CategoricalUniqueness = 0.5
)

// Classify returns the category for one column's values, absent markers
// included in the input but dropped for analysis.
func Classify(values []dataset.Value) Kind {
	present := make([]dataset.Value, 0, len(values))
	for _, v := range values {
		if !v.IsAbsent() {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return Unknown
	}

	n := float64(len(present))

	numeric := 0
	for _, v := range present {
		if _, ok := ParseNumber(v); ok {
			numeric++
		}
	}
	if float64(numeric)/n > NumericThreshold {
		return Numeric
	}

	dates := 0
	for _, v := range present {
		if _, ok := ParseDate(v); ok {
			dates++
		}
	}
	if float64(dates)/n > DateThreshold {
		return Date
	}

	distinct := make(map[dataset.Value]struct{}, len(present))
	for _, v := range present {
		distinct[v] = struct{}{}
	}
	if float64(len(distinct))/n < CategoricalUniqueness {
		return Categorical
	}
	return String
}

// ParseNumber attempts numeric coercion of a value: numbers pass through,
// text is parsed as a float after trimming. Absent values never coerce.
func ParseNumber(v dataset.Value) (float64, bool) {
	if f, ok := v.Number(); ok {
		return f, true
	}
	if s, ok := v.Text(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}

// dateLayouts are the calendar formats accepted by ParseDate, tried in
// order; the first match wins. ISO styles lead so that already-canonical
// values round-trip, followed by common DMY/MDY and textual-month forms and
// a few timestamp shapes.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"01.02.2006",
	"02/01/2006",
	"01/02/2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate attempts calendar-date coercion of a value. Only text can be a
// date; numbers and absent values never coerce.
func ParseDate(v dataset.Value) (time.Time, bool) {
	s, ok := v.Text()
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
