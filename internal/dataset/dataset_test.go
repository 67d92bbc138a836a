package dataset

import (
	"reflect"
	"strings"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"absent", Absent(), ""},
		{"integer number", Number(12), "12"},
		{"fractional number", Number(12.5), "12.5"},
		{"negative number", Number(-3), "-3"},
		{"text", Text("hello"), "hello"},
		{"empty text", Text(""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueEquality(t *testing.T) {
	// == is exact cell equality; the duplicate eliminator relies on it.
	if Number(0) == Absent() {
		t.Error("Number(0) must differ from Absent()")
	}
	if Text("") == Absent() {
		t.Error(`Text("") must differ from Absent()`)
	}
	if Number(1) != Number(1) {
		t.Error("equal numbers must compare equal")
	}
	if Text("a") == Text("b") {
		t.Error("different text must not compare equal")
	}
}

func TestCloneIsDeep(t *testing.T) {
	ds := New([]string{"a"})
	ds.Rows = []Row{{"a": Number(1)}}

	cp := ds.Clone()
	cp.Rows[0]["a"] = Number(2)

	if got, _ := ds.Rows[0]["a"].Number(); got != 1 {
		t.Errorf("mutating the clone changed the source: got %v", got)
	}
}

func TestColumnRoundTrip(t *testing.T) {
	ds := New([]string{"x"})
	ds.Rows = []Row{{"x": Number(1)}, {"x": Text("b")}, {"x": Absent()}}

	got := ds.Column("x")
	want := []Value{Number(1), Text("b"), Absent()}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Column() = %v, want %v", got, want)
	}

	ds.SetColumn("x", []Value{Text("z"), Text("z"), Text("z")})
	for i, r := range ds.Rows {
		if s, _ := r["x"].Text(); s != "z" {
			t.Errorf("row %d: SetColumn did not apply, got %v", i, r["x"])
		}
	}
}

func TestNumericColumn(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
		want   bool
	}{
		{"all numbers", []Value{Number(1), Number(2)}, true},
		{"numbers with gaps", []Value{Number(1), Absent(), Number(2)}, true},
		{"all absent", []Value{Absent(), Absent()}, true},
		{"one text cell", []Value{Number(1), Text("x")}, false},
		{"numeric-looking text", []Value{Number(1), Text("2")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := New([]string{"c"})
			for _, v := range tt.values {
				ds.Rows = append(ds.Rows, Row{"c": v})
			}
			if got := ds.NumericColumn("c"); got != tt.want {
				t.Errorf("NumericColumn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissingTotal(t *testing.T) {
	ds := New([]string{"a", "b"})
	ds.Rows = []Row{
		{"a": Number(1), "b": Absent()},
		{"a": Absent(), "b": Absent()},
	}
	if got := ds.MissingTotal(); got != 3 {
		t.Errorf("MissingTotal() = %d, want 3", got)
	}
}

func TestFromCSVTyping(t *testing.T) {
	in := "name,age,score\nAlice,30,9.5\nBob,NA,8\n,25,null\n"
	ds, err := FromCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}

	if !reflect.DeepEqual(ds.Columns, []string{"name", "age", "score"}) {
		t.Fatalf("columns = %v", ds.Columns)
	}
	if ds.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3", ds.NumRows())
	}

	// name has a text value, so present cells stay Text.
	if v := ds.Rows[0]["name"]; v != Text("Alice") {
		t.Errorf("name[0] = %v, want Text(Alice)", v)
	}
	if !ds.Rows[2]["name"].IsAbsent() {
		t.Errorf("empty name cell must load as absent")
	}

	// age: every non-missing value parses as a float, so numeric storage.
	if v := ds.Rows[0]["age"]; v != Number(30) {
		t.Errorf("age[0] = %v, want Number(30)", v)
	}
	if !ds.Rows[1]["age"].IsAbsent() {
		t.Errorf("NA must load as absent")
	}
	if !ds.NumericColumn("age") {
		t.Errorf("age must be numeric storage")
	}
}

func TestFromCSVMissingMarkers(t *testing.T) {
	in := "c\n\nna\nN/A\nNaN\nNULL\nNone\n  \n"
	ds, err := FromCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	for i, r := range ds.Rows {
		if !r["c"].IsAbsent() {
			t.Errorf("row %d: %v should be absent", i, r["c"])
		}
	}
}

func TestFromCSVSkipsMisalignedRows(t *testing.T) {
	in := "a,b\n1,2\nonly-one-field\n3,4\n"
	ds, err := FromCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	if ds.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2 (misaligned row skipped)", ds.NumRows())
	}
}

func TestFromCSVStripsBOM(t *testing.T) {
	in := "\uFEFFa,b\n1,2\n"
	ds, err := FromCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	if ds.Columns[0] != "a" {
		t.Errorf("first column = %q, want %q", ds.Columns[0], "a")
	}
}

func TestFromCSVEmptyInput(t *testing.T) {
	if _, err := FromCSV(strings.NewReader("")); err == nil {
		t.Fatal("empty input must fail to load")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ds := New([]string{"a", "b"})
	ds.Rows = []Row{
		{"a": Number(1), "b": Text("x")},
		{"a": Absent(), "b": Text("y")},
	}
	out, err := ds.MarshalCSV()
	if err != nil {
		t.Fatalf("MarshalCSV: %v", err)
	}
	want := "a,b\n1,x\n,y\n"
	if string(out) != want {
		t.Errorf("MarshalCSV = %q, want %q", out, want)
	}
}
