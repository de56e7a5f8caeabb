package tmin

import "errors"

var (
	// ErrEmptyCorpus is returned when there is no seed to start from.
	ErrEmptyCorpus = errors.New("empty seed corpus")

	// ErrNotReproducible is returned when the crash does not reproduce according to the oracle.
	ErrNotReproducible = errors.New("crash does not reproduce")

	// ErrTraceMismatch is returned when replaying the edit trace on the seed does not yield the crash.
	ErrTraceMismatch = errors.New("edit trace does not reproduce the crash input")
)

// SelectSeed returns the index of the seed in corpus closest to crash by edit distance, and that distance. Ties resolve to the first seed.
func SelectSeed(crash []byte, corpus [][]byte) (int, int, error) {
	if len(corpus) == 0 {
		return 0, 0, ErrEmptyCorpus
	}

	best, bestDist := 0, -1
	for i, seed := range corpus {
		if dist := NewTable(seed, crash).Distance(); bestDist == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, bestDist, nil
}
