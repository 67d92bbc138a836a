// Package report turns a completed cleaning run into a human-readable
// narrative.
//
// The narrative generator is modeled as a capability: a fallible function
// from the structured summary to text, passed into the boundary rather than
// hardwired. Production wires an LLM-backed generator; tests substitute a
// double. Generation is isolated behind a bounded timeout, and any failure
// degrades to a deterministic templated report, so the cleaning result is
// never blocked on an external call.
package report

import (
	"context"
	"strings"
	"time"

	"cleanbot/internal/pipeline"
)

// DefaultTimeout bounds a narrative generation call when the caller does
// not configure one.
const DefaultTimeout = 30 * time.Second

// Stats describes one dataset snapshot for the report.
type Stats struct {
	Rows         int
	Columns      int
	MissingTotal int
}

// Input is the structured summary consumed by generators.
type Input struct {
	Original Stats
	Cleaned  Stats
	Columns  []string
	Steps    []pipeline.Step
	Summary  pipeline.Summary
}

// Generator produces a narrative report from the structured summary.
type Generator func(ctx context.Context, in Input) (string, error)

// Generate runs gen under a bounded timeout and falls back to the
// deterministic report on any failure, timeout, or empty result. A nil gen
// yields the fallback immediately. Generate always returns usable text.
func Generate(ctx context.Context, gen Generator, timeout time.Duration, in Input) string {
	if gen == nil {
		return Fallback(in)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := gen(ctx, in)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil || strings.TrimSpace(out.text) == "" {
			return Fallback(in)
		}
		return out.text
	case <-ctx.Done():
		// The generator ignored its context; abandon it rather than wait.
		return Fallback(in)
	}
}
