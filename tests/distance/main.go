//go:build gofuzz
// +build gofuzz

package fuzz

import (
	"bytes"

	"github.com/tdewolff/tmin"
)

// Fuzz is a fuzz test.
func Fuzz(data []byte) int {
	from, to, ok := bytes.Cut(data, []byte{0})
	if !ok {
		return -1
	}
	dist, trace := tmin.Distance(from, to)
	if dist != len(trace) {
		panic("distance differs from trace length")
	} else if !bytes.Equal(tmin.Apply(trace, from, nil), to) {
		panic("trace does not transform the seed into the crash")
	}
	return 1
}
