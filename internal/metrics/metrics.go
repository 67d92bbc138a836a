// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the cleaning pipeline.
//
// It exposes a narrow Backend interface (counters and duration
// observations) with a global, pluggable implementation that defaults to a
// no-op, so instrumentation calls are always safe even when no real backend
// is configured. Concrete systems (Prometheus Pushgateway) live in
// subpackages and are installed via SetBackend.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a latency/duration style value in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)        {}
func (nopBackend) ObserveDuration(name string, seconds float64, labels Labels) {}
func (nopBackend) Flush() error                                                { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage measures one pipeline stage execution: a success/failure
// counter plus the stage duration.
func RecordStage(stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"stage": stage, "status": status}
	backend.IncCounter("cleanbot_stage_total", 1, lbls)
	backend.ObserveDuration("cleanbot_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordValues increments a value-level counter for the given kind, e.g.
// "missing_filled", "outliers_replaced", "duplicates_removed".
func RecordValues(kind string, n int) {
	if n == 0 {
		return
	}
	backend.IncCounter("cleanbot_values_total", float64(n), Labels{"kind": kind})
}
