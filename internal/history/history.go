// Package history implements an optional SQLite-backed audit log of
// cleaning runs, using database/sql over the modernc driver.
//
// The store lives entirely outside the core pipeline, which remains
// stateless across invocations: recording a run is fire-and-forget for the
// server, and a failure to record never affects the cleaning result.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cleanbot/internal/pipeline"
)

// Run is one recorded cleaning invocation.
type Run struct {
	ID        int64
	Filename  string
	Summary   pipeline.Summary
	CreatedAt time.Time
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS cleaning_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	original_rows INTEGER NOT NULL,
	cleaned_rows INTEGER NOT NULL,
	rows_removed INTEGER NOT NULL,
	columns INTEGER NOT NULL,
	missing_values_handled INTEGER NOT NULL,
	outliers_replaced INTEGER NOT NULL,
	date_columns_fixed INTEGER NOT NULL,
	duplicates_removed INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Open opens (creating if needed) the history database at dsn. A plain
// file path works; so does "file:...?" DSN syntax.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("history: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one completed run.
func (s *Store) Record(ctx context.Context, filename string, sum pipeline.Summary) error {
	const q = `INSERT INTO cleaning_runs
		(filename, original_rows, cleaned_rows, rows_removed, columns,
		 missing_values_handled, outliers_replaced, date_columns_fixed, duplicates_removed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		filename, sum.OriginalRows, sum.CleanedRows, sum.RowsRemoved, sum.Columns,
		sum.MissingValuesHandled, sum.OutliersReplaced, sum.DateColumnsFixed, sum.DuplicatesRemoved)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT id, filename, original_rows, cleaned_rows, rows_removed, columns,
		missing_values_handled, outliers_replaced, date_columns_fixed, duplicates_removed, created_at
		FROM cleaning_runs ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Filename,
			&r.Summary.OriginalRows, &r.Summary.CleanedRows, &r.Summary.RowsRemoved,
			&r.Summary.Columns, &r.Summary.MissingValuesHandled, &r.Summary.OutliersReplaced,
			&r.Summary.DateColumnsFixed, &r.Summary.DuplicatesRemoved, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return out, nil
}
