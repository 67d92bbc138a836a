// Package export loads a cleaned dataset into Postgres using pgx v5.
//
// The destination table is created automatically when absent; its column
// types come from the per-column classifier (numeric → double precision,
// date → date, everything else text) and its identifiers from the
// accent-stripping normalizer, so arbitrary CSV headers map onto valid SQL
// schemas. Rows go in through a single COPY.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cleanbot/internal/classify"
	"cleanbot/internal/dataset"
)

// Config holds the Postgres destination.
type Config struct {
	// DSN is the connection string for pgxpool.
	DSN string
	// Table is the target table name, optionally schema-qualified
	// ("public.cleaned"). Created if it does not exist.
	Table string
}

// ToPostgres creates the destination table if needed and COPYs the dataset
// into it. It returns the number of rows written.
func ToPostgres(ctx context.Context, cfg Config, ds *dataset.Dataset) (int64, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return 0, fmt.Errorf("export: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return 0, fmt.Errorf("export: table must not be empty")
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return 0, fmt.Errorf("export: pgxpool: %w", err)
	}
	defer pool.Close()

	cols := uniqueIdents(ds.Columns)
	kinds := columnKinds(ds)

	if _, err := pool.Exec(ctx, createTableSQL(cfg.Table, cols, sqlTypes(kinds))); err != nil {
		return 0, fmt.Errorf("export: create table: %w", err)
	}

	rows := make([][]any, len(ds.Rows))
	for i, row := range ds.Rows {
		vals := make([]any, len(ds.Columns))
		for j, name := range ds.Columns {
			vals[j] = cellValue(row[name], kinds[j])
		}
		rows[i] = vals
	}

	n, err := pool.CopyFrom(ctx, tableIdent(cfg.Table), cols, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("export: copy: %w", err)
	}
	return n, nil
}

// columnKinds classifies each source column once.
func columnKinds(ds *dataset.Dataset) []classify.Kind {
	kinds := make([]classify.Kind, len(ds.Columns))
	for i, name := range ds.Columns {
		kinds[i] = classify.Classify(ds.Column(name))
	}
	return kinds
}

// sqlTypes maps classifier kinds to Postgres column types.
func sqlTypes(kinds []classify.Kind) []string {
	types := make([]string, len(kinds))
	for i, k := range kinds {
		switch k {
		case classify.Numeric:
			types[i] = "double precision"
		case classify.Date:
			types[i] = "date"
		default:
			types[i] = "text"
		}
	}
	return types
}

// createTableSQL renders CREATE TABLE IF NOT EXISTS for the destination.
func createTableSQL(table string, cols, types []string) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c), types[i])
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		tableIdent(table).Sanitize(), strings.Join(defs, ", "))
}

// cellValue converts a dataset cell into a driver value matched to the
// destination column type. Absent cells become NULL everywhere, numeric
// columns get float64, date columns get time.Time (pgx's binary COPY wants
// concrete temporal values, not strings), and text columns get strings with
// non-text leftovers rendered the same way the CSV writer would.
func cellValue(v dataset.Value, kind classify.Kind) any {
	if v.IsAbsent() {
		return nil
	}
	switch kind {
	case classify.Numeric:
		if f, ok := classify.ParseNumber(v); ok {
			return f
		}
		return nil
	case classify.Date:
		if t, ok := classify.ParseDate(v); ok {
			return t
		}
		return nil
	default:
		if s, ok := v.Text(); ok {
			return s
		}
		return v.String()
	}
}

// tableIdent splits an optionally schema-qualified table name.
func tableIdent(table string) pgx.Identifier {
	parts := strings.SplitN(table, ".", 2)
	return pgx.Identifier(parts)
}

// quoteIdent double-quotes a single identifier.
func quoteIdent(s string) string {
	return pgx.Identifier{s}.Sanitize()
}
