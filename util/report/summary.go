// Package report carries the poll-able outcome structures of an emulation
// run. Errors and warnings always surface here or in a log line; nothing is
// swallowed without a counter.
package report

import (
	"fmt"
	"io"
	"time"
)

// DeviceSummary is the per-device slice of a run summary.
type DeviceSummary struct {
	DeviceID  string
	Emissions uint64
	Errors    uint64
}

// RunSummary describes one emulation run end to end.
type RunSummary struct {
	Started  time.Time
	Finished time.Time

	Devices   []DeviceSummary
	Emissions uint64
	Errors    uint64
	Warnings  uint64

	// GenerationLatency aggregates per-emission generation time in
	// milliseconds.
	GenerationLatency *StatGroup
}

// Fprint pretty-prints the summary to the given writer.
func (r *RunSummary) Fprint(w io.Writer) {
	took := r.Finished.Sub(r.Started)
	fmt.Fprintf(w, "run complete: %d devices, %d emissions, %d errors, %d warnings in %fsec\n",
		len(r.Devices), r.Emissions, r.Errors, r.Warnings, took.Seconds())
	if r.GenerationLatency != nil && r.GenerationLatency.Count() > 0 {
		fmt.Fprintf(w, "generation latency ms : %s\n", r.GenerationLatency.String())
	}
	for _, d := range r.Devices {
		fmt.Fprintf(w, "%s : emissions: %8d, errors: %8d\n", d.DeviceID, d.Emissions, d.Errors)
	}
}
