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
	if !ok || len(to) == 0 {
		return -1
	}
	needle := to[len(to)-1:]
	oracle := tmin.OracleFunc(func(b []byte) bool {
		return bytes.Contains(b, needle)
	})

	_, trace := tmin.Distance(from, to)
	result := tmin.DeltaDebug(trace, from, oracle, nil)
	if len(trace) < len(result) {
		panic("trace grew")
	} else if !oracle(tmin.Apply(result, from, nil)) {
		panic("result does not reproduce")
	}
	return 1
}
