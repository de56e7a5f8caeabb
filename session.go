package tmin

import (
	"bytes"
	"fmt"
)

// Session holds the state of a minimization run: the seed corpus, the oracle, and where progress is reported.
type Session struct {
	Corpus   [][]byte
	Oracle   Oracle
	Reporter *Reporter
}

// NewSession returns a new Session. The reporter may be nil.
func NewSession(corpus [][]byte, oracle Oracle, r *Reporter) *Session {
	return &Session{corpus, oracle, r}
}

// Result is the outcome of minimizing a crash.
type Result struct {
	Seed     int   // index of the selected seed in the corpus
	Distance int   // edit distance between seed and crash
	Trace    Trace // minimized trace
	Output   []byte
	Calls    int // number of oracle calls
}

// Minimize selects the seed closest to crash, computes the edit trace from that seed to crash, and removes as many edits as possible while the oracle still reproduces. Result.Output is newly allocated and owned by the caller; crash is not modified.
func (s *Session) Minimize(crash []byte) (Result, error) {
	idx, _, err := SelectSeed(crash, s.Corpus)
	if err != nil {
		return Result{}, err
	}
	seed := s.Corpus[idx]
	s.Reporter.Start(seed, crash)

	table := NewTable(seed, crash)
	s.Reporter.Table(table)
	dist, trace := table.Distance(), table.Trace()
	s.Reporter.Distance(dist, trace)

	oracle := &countingOracle{oracle: s.Oracle}
	replay := ApplyLog(s.Reporter.applyLog(), trace, seed, nil)
	s.Reporter.Replayed(replay)
	if !bytes.Equal(replay, crash) {
		return Result{}, fmt.Errorf("%w: distance %d", ErrTraceMismatch, dist)
	} else if !oracle.Reproduces(replay) {
		return Result{}, ErrNotReproducible
	}

	trace = DeltaDebug(trace, seed, oracle, s.Reporter)
	output := ApplyLog(s.Reporter.applyLog(), trace, seed, nil)
	s.Reporter.Done(seed, trace, output)
	return Result{
		Seed:     idx,
		Distance: dist,
		Trace:    trace,
		Output:   output,
		Calls:    oracle.calls,
	}, nil
}

type countingOracle struct {
	oracle Oracle
	calls  int
}

func (o *countingOracle) Reproduces(candidate []byte) bool {
	o.calls++
	return o.oracle.Reproduces(candidate)
}
