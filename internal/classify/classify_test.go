package classify

import (
	"testing"
	"time"

	"cleanbot/internal/dataset"
)

func texts(ss ...string) []dataset.Value {
	out := make([]dataset.Value, len(ss))
	for i, s := range ss {
		out[i] = dataset.Text(s)
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		values []dataset.Value
		want   Kind
	}{
		{
			name:   "all numbers",
			values: []dataset.Value{dataset.Number(1), dataset.Number(2), dataset.Number(3)},
			want:   Numeric,
		},
		{
			name:   "numeric text",
			values: texts("1", "2", "3.5", "4", "-7"),
			want:   Numeric,
		},
		{
			// 4 of 5 parse: 0.8 is not strictly above the threshold.
			name:   "exactly 80 percent numeric is not numeric",
			values: texts("1", "2", "3", "4", "x"),
			want:   String,
		},
		{
			// 5 of 6 parse: 0.833 > 0.8.
			name:   "just above numeric threshold",
			values: texts("1", "2", "3", "4", "5", "x"),
			want:   Numeric,
		},
		{
			name:   "iso dates",
			values: texts("2023-01-01", "2023-02-15", "2023-09-30"),
			want:   Date,
		},
		{
			name:   "mixed date spellings",
			values: texts("2023-01-01", "15/02/2023", "30.09.2023", "2 Jan 2006", "01-Feb-2023"),
			want:   Date,
		},
		{
			// Compact dates parse as floats too; numeric wins by test order.
			name:   "compact dates are numeric",
			values: texts("20230101", "20230215", "20230930"),
			want:   Numeric,
		},
		{
			// 2 distinct over 6 present: ratio 0.333 < 0.5.
			name:   "low uniqueness is categorical",
			values: texts("yes", "no", "yes", "no", "yes", "yes"),
			want:   Categorical,
		},
		{
			// 2 distinct over 4 present: ratio exactly 0.5 is not below.
			name:   "uniqueness at boundary stays string",
			values: texts("a", "b", "a", "b"),
			want:   String,
		},
		{
			name:   "free text",
			values: texts("alpha", "beta", "gamma", "delta"),
			want:   String,
		},
		{
			name:   "all absent",
			values: []dataset.Value{dataset.Absent(), dataset.Absent()},
			want:   Unknown,
		},
		{
			name:   "empty column",
			values: nil,
			want:   Unknown,
		},
		{
			// Fractions are over present values only.
			name:   "absents excluded from fractions",
			values: []dataset.Value{dataset.Absent(), dataset.Text("1"), dataset.Text("2"), dataset.Absent()},
			want:   Numeric,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.values); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		v      dataset.Value
		want   float64
		wantOK bool
	}{
		{"number passes through", dataset.Number(4.2), 4.2, true},
		{"plain integer text", dataset.Text("17"), 17, true},
		{"padded float text", dataset.Text("  3.5 "), 3.5, true},
		{"scientific notation", dataset.Text("1e3"), 1000, true},
		{"word", dataset.Text("seven"), 0, false},
		{"absent", dataset.Absent(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.v)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseNumber() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in string
		ok bool
	}{
		{"2023-03-05", true},
		{"2023/03/05", true},
		{"05.03.2023", true},
		{"05/03/2023", true},
		{"05-Mar-2023", true},
		{"5 Mar 2023", true},
		{"20230305", true},
		{"not a date", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(dataset.Text(tt.in))
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && !got.Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, want)
			}
		})
	}

	if _, ok := ParseDate(dataset.Number(20230305)); ok {
		t.Error("numbers must never parse as dates")
	}
}

func TestParseDateLayoutOrder(t *testing.T) {
	// Ambiguous day/month strings resolve day-first, matching the layout
	// ordering.
	got, ok := ParseDate(dataset.Text("02/03/2023"))
	if !ok {
		t.Fatal("02/03/2023 should parse")
	}
	want := time.Date(2023, time.March, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v (day-first)", got, want)
	}
}
