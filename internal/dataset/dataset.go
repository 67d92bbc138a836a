// Package dataset models the rectangular, dynamically typed tables the
// cleaning pipeline operates on.
//
// Every cell is a tagged Value (absent, number, or text) rather than a field
// of a native Go type, because real-world CSV columns are frequently mixed:
// a nominally numeric column may contain stray text, empty cells, or both.
// Classification and coercion logic downstream operates over this variant.
package dataset

import "strconv"

// valueKind discriminates the Value variant.
type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindNumber
	kindText
)

// Value is a single cell: absent, a float64 number, or a text string.
//
// Value is a small comparable struct; == on two Values is exact cell
// equality, which the duplicate eliminator relies on.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Absent returns the absent (null/missing) value.
func Absent() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: kindText, str: s} }

// IsAbsent reports whether the value is missing.
func (v Value) IsAbsent() bool { return v.kind == kindAbsent }

// IsNumber reports whether the value holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// IsText reports whether the value holds text.
func (v Value) IsText() bool { return v.kind == kindText }

// Number returns the numeric payload and whether the value is a number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == kindNumber }

// Text returns the text payload and whether the value is text.
func (v Value) Text() (string, bool) { return v.str, v.kind == kindText }

// String renders the value the way it is written back to CSV: numbers in
// minimal form ("12", not "12.000000"), absent as the empty field.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case kindText:
		return v.str
	default:
		return ""
	}
}

// Row maps column name to cell value.
type Row map[string]Value

// Dataset is an ordered sequence of rows sharing one ordered column set.
//
// Invariant: every row has exactly the columns listed in Columns. The row
// count may shrink during cleaning (duplicate removal) but never grows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// New builds an empty dataset with the given column order.
func New(columns []string) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{Columns: cols}
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return len(d.Rows) }

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int { return len(d.Columns) }

// Clone returns a deep copy. The pipeline uses it to pin the immutable
// "original" snapshot before any stage runs.
func (d *Dataset) Clone() *Dataset {
	out := New(d.Columns)
	out.Rows = make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// Column returns the named column's values in row order.
func (d *Dataset) Column(name string) []Value {
	out := make([]Value, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r[name]
	}
	return out
}

// SetColumn replaces the named column's values in row order. The length of
// values must equal the row count; extra values are ignored and short slices
// leave trailing rows untouched, so callers should always pass a full column.
func (d *Dataset) SetColumn(name string, values []Value) {
	n := len(values)
	for i, r := range d.Rows {
		if i >= n {
			return
		}
		r[name] = values[i]
	}
}

// MissingTotal counts absent cells across the whole dataset.
func (d *Dataset) MissingTotal() int {
	total := 0
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			if r[c].IsAbsent() {
				total++
			}
		}
	}
	return total
}

// NumericColumn reports whether every non-absent cell in the column holds a
// number. This is the dataset's notion of "numeric storage kind": a column
// where even one present cell is text does not qualify, regardless of what
// the text looks like. Columns with no present cells qualify vacuously,
// mirroring how an all-empty CSV column loads as a numeric column of nulls.
func (d *Dataset) NumericColumn(name string) bool {
	for _, r := range d.Rows {
		v := r[name]
		if v.IsAbsent() {
			continue
		}
		if !v.IsNumber() {
			return false
		}
	}
	return true
}
