// Package prof collects wall-clock timings for the solver pipeline phases
// (memory build, tree build, nonce search, verification).
package prof

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Entry is a single labelled timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start under the given label. Intended as
// `defer prof.Track(time.Now(), "build_memory")`.
func Track(start time.Time, label string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: label, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears the record.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Report writes the collected entries and their total to w, then clears
// the record.
func Report(w io.Writer) {
	entries := SnapshotAndReset()
	var total time.Duration
	for _, e := range entries {
		fmt.Fprintf(w, "%-16s %v\n", e.Label, e.Dur)
		total += e.Dur
	}
	if len(entries) > 1 {
		fmt.Fprintf(w, "%-16s %v\n", "total", total)
	}
}
