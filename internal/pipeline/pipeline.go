// Package pipeline runs the fixed sequence of heuristic cleaning stages
// over one dataset:
//
//	load → normalize strings → fix dates → handle missing →
//	remove duplicates → replace outliers → finalize
//
// The order never branches and no stage is skipped. Each stage receives the
// previous "current" dataset, produces a new version, and the orchestrator
// swaps the reference; the "original" snapshot taken at load time is never
// mutated. A Pipeline serves exactly one invocation: it holds no global
// state, takes no locks, and is not reentrant, so concurrent callers must
// each construct their own.
//
// Only the load can fail. Failures inside a stage's per-column work (an
// unparseable date, a column with nothing to impute) are recovered locally
// by leaving that column or value unchanged.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"cleanbot/internal/dataset"
	"cleanbot/internal/metrics"
)

// Step names are a wire contract shared with the script synthesizer and the
// report generator; they must not drift.
const (
	StepLoad       = "load_csv"
	StepNormalize  = "trim_and_normalize"
	StepFixDates   = "fix_dates"
	StepMissing    = "handle_missing"
	StepDuplicates = "remove_duplicates"
	StepOutliers   = "detect_outliers"
)

// Step records one completed pipeline stage. The log is append-only and
// entries are never mutated after creation.
type Step struct {
	Name        string `json:"step"`
	Description string `json:"description"`
}

// Summary holds the named counters accumulated across the run. Each stage
// writes only its own counters; the orchestrator owns the totals.
type Summary struct {
	OriginalRows         int `json:"original_rows"`
	CleanedRows          int `json:"cleaned_rows"`
	RowsRemoved          int `json:"rows_removed"`
	Columns              int `json:"columns"`
	MissingValuesHandled int `json:"missing_values_handled"`
	OutliersReplaced     int `json:"outliers_replaced"`
	DateColumnsFixed     int `json:"date_columns_fixed"`
	DuplicatesRemoved    int `json:"duplicates_removed"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Original *dataset.Dataset
	Cleaned  *dataset.Dataset
	Steps    []Step
	Summary  Summary
}

// stage is one cleaning transformation. apply takes the prior dataset,
// returns the next version plus a human description for the step log, and
// records its own counters on the summary. Stages do not fail; per-column
// trouble is absorbed inside apply.
type stage interface {
	name() string
	apply(ds *dataset.Dataset, sum *Summary) (*dataset.Dataset, string)
}

// chain is the fixed stage order.
var chain = []stage{
	stringNormalize{},
	dateNormalize{},
	missingImpute{},
	duplicateDrop{},
	outlierReplace{},
}

// Pipeline orchestrates one cleaning run.
type Pipeline struct {
	original *dataset.Dataset
	current  *dataset.Dataset
	steps    []Step
	summary  Summary
}

// New constructs a fresh Pipeline. One Pipeline per invocation.
func New() *Pipeline {
	return &Pipeline{}
}

// Run loads CSV data from r and executes the full cleaning sequence.
// A load failure is fatal and returned; everything after a successful load
// is best-effort and always yields a Result.
func (p *Pipeline) Run(r io.Reader) (*Result, error) {
	start := time.Now()
	err := p.load(r)
	metrics.RecordStage(StepLoad, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	for _, st := range chain {
		begin := time.Now()
		next, desc := st.apply(p.current, &p.summary)
		p.current = next
		p.steps = append(p.steps, Step{Name: st.name(), Description: desc})
		metrics.RecordStage(st.name(), nil, time.Since(begin))
	}

	p.finalize()

	return &Result{
		Original: p.original,
		Cleaned:  p.current,
		Steps:    p.steps,
		Summary:  p.summary,
	}, nil
}

// load parses the input and pins the immutable original snapshot.
func (p *Pipeline) load(r io.Reader) error {
	ds, err := dataset.FromCSV(r)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	p.original = ds
	p.current = ds.Clone()
	p.summary.OriginalRows = ds.NumRows()
	p.summary.Columns = ds.NumColumns()
	p.steps = append(p.steps, Step{
		Name:        StepLoad,
		Description: fmt.Sprintf("Loaded CSV with %d rows and %d columns", ds.NumRows(), ds.NumColumns()),
	})
	return nil
}

// finalize computes the derived row totals. It appends no step record.
func (p *Pipeline) finalize() {
	p.summary.CleanedRows = p.current.NumRows()
	p.summary.RowsRemoved = p.summary.OriginalRows - p.summary.CleanedRows
	metrics.RecordValues("missing_filled", p.summary.MissingValuesHandled)
	metrics.RecordValues("outliers_replaced", p.summary.OutliersReplaced)
	metrics.RecordValues("duplicates_removed", p.summary.DuplicatesRemoved)
}
