package stats

import (
	"testing"

	"cleanbot/internal/dataset"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		xs     []float64
		want   float64
		wantOK bool
	}{
		{"empty", nil, 0, false},
		{"single", []float64{7}, 7, true},
		{"odd count", []float64{3, 1, 2}, 2, true},
		{"even count interpolates", []float64{1, 2, 3, 4}, 2.5, true},
		{"unsorted input", []float64{1000, 10, 12, 11, 13}, 12, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.xs)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Median(%v) = (%v, %v), want (%v, %v)", tt.xs, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestQuantile(t *testing.T) {
	xs := []float64{10, 11, 12, 13, 1000}
	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"minimum", 0, 10},
		{"first quartile", 0.25, 11},
		{"median", 0.5, 12},
		{"third quartile", 0.75, 13},
		{"maximum", 1, 1000},
		// pos = 0.1*4 = 0.4 → 10 + 0.4*(11-10).
		{"interpolated", 0.1, 10.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Quantile(xs, tt.q)
			if !ok {
				t.Fatalf("Quantile(%v) not ok", tt.q)
			}
			if got != tt.want {
				t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}

	if _, ok := Quantile(nil, 0.5); ok {
		t.Error("Quantile of empty slice must not be ok")
	}
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	Quantile(xs, 0.5)
	if xs[0] != 3 || xs[1] != 1 || xs[2] != 2 {
		t.Errorf("input was reordered: %v", xs)
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		name   string
		values []dataset.Value
		want   dataset.Value
		wantOK bool
	}{
		{
			name:   "clear winner",
			values: []dataset.Value{dataset.Text("a"), dataset.Text("b"), dataset.Text("a")},
			want:   dataset.Text("a"),
			wantOK: true,
		},
		{
			name:   "tie breaks to smallest text",
			values: []dataset.Value{dataset.Text("b"), dataset.Text("a")},
			want:   dataset.Text("a"),
			wantOK: true,
		},
		{
			name:   "tie breaks to smallest number",
			values: []dataset.Value{dataset.Number(9), dataset.Number(2)},
			want:   dataset.Number(2),
			wantOK: true,
		},
		{
			name:   "numbers sort before text",
			values: []dataset.Value{dataset.Text("a"), dataset.Number(5)},
			want:   dataset.Number(5),
			wantOK: true,
		},
		{
			name:   "absent values ignored",
			values: []dataset.Value{dataset.Absent(), dataset.Absent(), dataset.Text("x")},
			want:   dataset.Text("x"),
			wantOK: true,
		},
		{
			name:   "all absent",
			values: []dataset.Value{dataset.Absent()},
			want:   dataset.Absent(),
			wantOK: false,
		},
		{
			name:   "empty",
			values: nil,
			want:   dataset.Absent(),
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mode(tt.values)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Mode() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
