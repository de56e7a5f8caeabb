package tmin

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestSelectSeed(t *testing.T) {
	var seedTests = []struct {
		crash  string
		corpus []string
		seed   int
		dist   int
	}{
		{"helo", []string{"hello", "foo"}, 0, 1},
		{"fo", []string{"hello", "foo"}, 1, 1},
		{"ab", []string{"xy", "ba", "ab"}, 2, 0},
		{"ab", []string{"aa", "bb"}, 0, 1}, // tie goes to the first
		{"", []string{"abc", "", "a"}, 1, 0},
	}
	for _, tt := range seedTests {
		t.Run(tt.crash, func(t *testing.T) {
			corpus := make([][]byte, len(tt.corpus))
			for i, seed := range tt.corpus {
				corpus[i] = []byte(seed)
			}
			seed, dist, err := SelectSeed([]byte(tt.crash), corpus)
			test.Error(t, err)
			test.T(t, seed, tt.seed, "seed")
			test.T(t, dist, tt.dist, "distance")
		})
	}
}

func TestSelectSeedEmpty(t *testing.T) {
	_, _, err := SelectSeed([]byte("crash"), nil)
	test.T(t, err, ErrEmptyCorpus)
}
