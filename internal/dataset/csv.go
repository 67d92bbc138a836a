package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrLoad marks malformed or structurally invalid input. Load failures are
// the only fatal errors in the cleaning pipeline; everything downstream is
// best-effort.
var ErrLoad = errors.New("dataset: load failed")

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// missingMarkers are the raw cell spellings treated as absent, compared
// case-insensitively after trimming.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// isMissing reports whether a raw CSV field denotes an absent value.
func isMissing(raw string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(raw))]
}

// FromCSV reads a CSV document into a Dataset.
//
// Reading is lenient the same way the rest of this codebase treats
// real-world CSV: lazy quotes, leading space trimmed, variable field counts
// tolerated. Data rows whose width differs from the header are skipped
// rather than failing the load. A missing or empty header is a load error.
//
// Column typing mirrors dataframe-style dtype inference: a column becomes
// numeric storage (all present cells Number) only when every non-missing raw
// value parses as a float; otherwise present cells stay Text. Missing
// markers become Absent either way.
func FromCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var header []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input", ErrLoad)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read header: %v", ErrLoad, err)
		}
		if len(rec) == 0 {
			continue
		}
		header = rec
		break
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	want := len(columns)
	var raw [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Best-effort: skip malformed lines, keep the rest of the file.
			continue
		}
		if len(rec) != want {
			continue
		}
		raw = append(raw, rec)
	}

	ds := New(columns)
	ds.Rows = make([]Row, len(raw))
	for i := range raw {
		ds.Rows[i] = make(Row, want)
	}

	for c, name := range columns {
		numeric := true
		for _, rec := range raw {
			if isMissing(rec[c]) {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[c]), 64); err != nil {
				numeric = false
				break
			}
		}
		for i, rec := range raw {
			field := rec[c]
			switch {
			case isMissing(field):
				ds.Rows[i][name] = Absent()
			case numeric:
				f, _ := strconv.ParseFloat(strings.TrimSpace(field), 64)
				ds.Rows[i][name] = Number(f)
			default:
				ds.Rows[i][name] = Text(field)
			}
		}
	}

	return ds, nil
}

// WriteCSV writes the dataset as CSV: header row, then data rows in order.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}
	rec := make([]string, len(d.Columns))
	for _, row := range d.Rows {
		for i, c := range d.Columns {
			rec[i] = row[c].String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("dataset: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCSV renders the dataset to an in-memory CSV document.
func (d *Dataset) MarshalCSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
