package pipeline

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"

	"cleanbot/internal/dataset"
)

// duplicateDrop removes rows that repeat an earlier row exactly, value by
// value across all columns, keeping the first occurrence in original order.
//
// Rows are bucketed by an xxh3 hash of their encoded cells; full equality
// is verified inside a bucket, so hash collisions can never drop a
// non-duplicate row.
type duplicateDrop struct{}

func (duplicateDrop) name() string { return StepDuplicates }

func (duplicateDrop) apply(ds *dataset.Dataset, sum *Summary) (*dataset.Dataset, string) {
	out := dataset.New(ds.Columns)
	out.Rows = make([]dataset.Row, 0, len(ds.Rows))

	buckets := make(map[uint64][]int, len(ds.Rows))
	var key []byte
	for _, row := range ds.Rows {
		key = appendRowKey(key[:0], ds.Columns, row)
		h := xxh3.Hash(key)

		dup := false
		for _, idx := range buckets[h] {
			if rowsEqual(out.Rows[idx], row, ds.Columns) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[h] = append(buckets[h], len(out.Rows))
		out.Rows = append(out.Rows, cloneRow(row))
	}

	removed := len(ds.Rows) - len(out.Rows)
	sum.DuplicatesRemoved = removed
	return out, fmt.Sprintf("Removed %d duplicate rows", removed)
}

// appendRowKey encodes a row in column order for hashing. Each cell gets a
// kind tag so that absent, the number 0, and the empty string hash apart,
// with 0x1f between cells.
func appendRowKey(buf []byte, columns []string, row dataset.Row) []byte {
	for _, col := range columns {
		v := row[col]
		switch {
		case v.IsAbsent():
			buf = append(buf, 'a')
		case v.IsNumber():
			f, _ := v.Number()
			buf = append(buf, 'n')
			buf = strconv.AppendFloat(buf, f, 'g', -1, 64)
		default:
			s, _ := v.Text()
			buf = append(buf, 't')
			buf = append(buf, s...)
		}
		buf = append(buf, 0x1f)
	}
	return buf
}

// rowsEqual reports exact cell equality across all columns.
func rowsEqual(a, b dataset.Row, columns []string) bool {
	for _, col := range columns {
		if a[col] != b[col] {
			return false
		}
	}
	return true
}

// cloneRow copies a row so the output dataset shares nothing with its input.
func cloneRow(row dataset.Row) dataset.Row {
	out := make(dataset.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
