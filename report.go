package tmin

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Verbosity is the level of detail of a Reporter.
type Verbosity int

// Verbosity levels. Concise reports only lengths and the outcome of each round, Verbose reports contents, the distance table, and every oracle test.
const (
	Quiet Verbosity = iota
	Concise
	Verbose
)

// Reporter writes the progress of a minimization. A nil *Reporter reports nothing.
type Reporter struct {
	w     io.Writer
	Level Verbosity
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer, level Verbosity) *Reporter {
	return &Reporter{w, level}
}

func (r *Reporter) is(level Verbosity) bool {
	return r != nil && r.w != nil && level <= r.Level
}

func (r *Reporter) printf(level Verbosity, format string, args ...interface{}) {
	if r.is(level) {
		fmt.Fprintf(r.w, format, args...)
	}
}

// applyLog returns the writer for per-edit application logs, or nil.
func (r *Reporter) applyLog() io.Writer {
	if r.is(Verbose) {
		return r.w
	}
	return nil
}

// Start reports the selected seed and the crash.
func (r *Reporter) Start(seed, crash []byte) {
	if r.is(Verbose) {
		r.printf(Verbose, "Original test case: %s\n", printableBytes(seed))
		r.printf(Verbose, "Original crash: %s\n", printableBytes(crash))
	} else {
		r.printf(Concise, "Original test case length: %d\n", len(seed))
		r.printf(Concise, "Original crash length: %d\n", len(crash))
	}
}

// Table reports the distance table.
func (r *Reporter) Table(t *Table) {
	if r.is(Verbose) {
		r.printf(Verbose, "Lookup table:\n")
		_ = t.Fprint(r.w)
	}
}

// Distance reports the distance and trace between seed and crash.
func (r *Reporter) Distance(dist int, trace Trace) {
	r.printf(Concise, "Original distance: %d\n", dist)
	r.printf(Verbose, "Original trace: %v\n", trace)
}

// Replayed reports the result of applying the full trace.
func (r *Reporter) Replayed(b []byte) {
	if r.is(Verbose) {
		r.printf(Verbose, "Edit result: %s\n", printableBytes(b))
	} else {
		r.printf(Concise, "Edit result length: %d\n", len(b))
	}
	r.printf(Concise, "==========\n")
}

// Probe reports whether the seed on its own reproduces.
func (r *Reporter) Probe(candidate []byte, ok bool) {
	r.printf(Verbose, "Empty = %s (%s)\n", printableBytes(candidate), passFail(ok))
	if ok && !r.is(Verbose) {
		r.printf(Concise, "Empty = (length %d)\n", len(candidate))
	}
}

// Granularity reports the start of a round with k partitions.
func (r *Reporter) Granularity(k int) {
	r.printf(Concise, "Trying %d partitions...\n", k)
}

// Test reports the oracle outcome for the chunk [start,end) or its complement.
func (r *Reporter) Test(start, end int, complement bool, candidate []byte, ok bool) {
	name := fmt.Sprintf("Mask(%d-%d)", start, end-1)
	if complement {
		name = "~" + name
	}
	if r.is(Verbose) {
		r.printf(Verbose, "%s = %s (%s)\n", name, printableBytes(candidate), passFail(ok))
	} else if ok {
		r.printf(Concise, "%s = (length %d)\n", name, len(candidate))
	}
}

// Exhausted reports that no partition of a round reproduced.
func (r *Reporter) Exhausted(k int) {
	r.printf(Concise, "Failed at %d partitions!\n", k)
}

// Shrunk reports that the trace was replaced by a shorter one.
func (r *Reporter) Shrunk(old, trace Trace) {
	if r.is(Verbose) {
		r.printf(Verbose, "Success!\nOriginal: %v\nMasked: %v\n", old, trace)
	} else {
		r.printf(Concise, "Success! Edit length reduced from %d to %d\n", len(old), len(trace))
	}
}

// Done reports the minimized trace and its result.
func (r *Reporter) Done(seed []byte, trace Trace, result []byte) {
	r.printf(Concise, "Optimal distance: %d\n", len(trace))
	if r.is(Verbose) {
		r.printf(Verbose, "Optimal trace: %v\n", trace)
		r.printf(Verbose, "Optimal result: %s\n", printableBytes(result))
		r.printf(Verbose, "Seed diff: %s\n", ByteDiff(seed, result))
	} else {
		r.printf(Concise, "Optimal result length: %d\n", len(result))
	}
}

// ByteDiff renders the differences between a and b, with deleted bytes as [-...-] and inserted bytes as {+...+}.
func ByteDiff(a, b []byte) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(byteRunes(a), byteRunes(b), false)

	sb := strings.Builder{}
	for _, diff := range diffs {
		text := strings.Builder{}
		for _, c := range diff.Text {
			text.WriteString(byteText(byte(c)))
		}
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(text.String())
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + text.String() + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + text.String() + "+}")
		}
	}
	return sb.String()
}

// byteRunes maps every byte to one rune so that the diff works per byte regardless of UTF-8 validity.
func byteRunes(b []byte) []rune {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return rs
}

func passFail(ok bool) string {
	if ok {
		return "reproduces"
	}
	return "no crash"
}
