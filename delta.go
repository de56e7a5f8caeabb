package tmin

// Oracle reports whether a candidate input reproduces the failure. It must be deterministic for identical inputs.
type Oracle interface {
	Reproduces(candidate []byte) bool
}

// OracleFunc is a function that implements Oracle.
type OracleFunc func([]byte) bool

// Reproduces calls f(candidate).
func (f OracleFunc) Reproduces(candidate []byte) bool {
	return f(candidate)
}

// DeltaDebug shrinks trace while applying it to base still reproduces according to oracle, and returns the smallest trace found. Applying trace to base must reproduce on entry.
//
// When the trace has more than one edit, the oracle is first called on base alone, before any partition is tested. If base reproduces, the empty trace is returned. A trace of at most one edit is returned without calling the oracle.
//
// The trace is split into k contiguous chunks, starting with k=2. Each chunk and then its complement are tested in order; the first that reproduces becomes the new trace and k is reset to 2. When none reproduces, k is doubled until it exceeds twice the trace length. The result is minimal with respect to the tested partitions only.
func DeltaDebug(trace Trace, base []byte, oracle Oracle, r *Reporter) Trace {
	if len(trace) <= 1 {
		return trace
	}

	// the seed itself may already fail, in which case no edit is needed
	candidate := Apply(nil, base, nil)
	ok := oracle.Reproduces(candidate)
	r.Probe(candidate, ok)
	if ok {
		r.Shrunk(trace, Trace{})
		return Trace{}
	}

	k := 2
	cur := trace
	for 1 < len(cur) && k <= 2*len(cur) {
		r.Granularity(k)
		if mask := testPartitions(cur, base, k, oracle, r); mask != nil {
			next := cur.Filter(mask)
			r.Shrunk(cur, next)
			cur = next
			k = 2
		} else {
			r.Exhausted(k)
			k *= 2
		}
	}
	return cur
}

// testPartitions returns the mask of the first chunk or chunk complement that reproduces, or nil.
func testPartitions(trace Trace, base []byte, k int, oracle Oracle, r *Reporter) Mask {
	size, remainder := len(trace)/k, len(trace)%k
	for start := 0; start < len(trace); {
		end := start + size
		if 0 < remainder {
			remainder--
			end++
		}

		for _, complement := range []bool{false, true} {
			mask := chunkMask(len(trace), start, end, complement)
			candidate := Apply(trace, base, mask)
			ok := oracle.Reproduces(candidate)
			r.Test(start, end, complement, candidate, ok)
			if ok {
				return mask
			}
		}
		start = end
	}
	return nil
}
