// Package corpus loads the seed inputs that a crash is minimized against.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/matryer/try"
)

var (
	// ErrNotExist is returned when the seed path does not exist.
	ErrNotExist = errors.New("seed path does not exist")

	// ErrEmpty is returned when the seed path holds no seeds.
	ErrEmpty = errors.New("no seeds found")
)

// Seed is a known non-crashing input.
type Seed struct {
	Name string
	Data []byte
}

// Default returns the seed used when no seed path is given.
func Default() []Seed {
	return []Seed{{"default", []byte("hello")}}
}

// Load reads the seed at path, or every regular file in the directory at path. Hidden files and subdirectories are skipped. Seeds are returned in order of filename.
func Load(fsys fs.FS, path string) ([]Seed, error) {
	path = filepath.Clean(path)
	info, err := fs.Stat(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	} else if err != nil {
		return nil, err
	}

	seeds := []Seed{}
	if info.Mode().IsRegular() {
		seed, err := readSeed(fsys, path)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	} else if info.IsDir() {
		entries, err := fs.ReadDir(fsys, path)
		if err != nil {
			return nil, err
		}
		for _, d := range entries {
			if d.Name() == "" || d.Name()[0] == '.' {
				continue
			}

			name := filepath.Join(path, d.Name())
			if d.Type()&fs.ModeSymlink != 0 {
				// follow and dereference symlinks
				info, err := fs.Stat(fsys, name)
				if err != nil {
					return nil, err
				} else if !info.Mode().IsRegular() {
					continue
				}
			} else if !d.Type().IsRegular() {
				continue
			}

			seed, err := readSeed(fsys, name)
			if err != nil {
				return nil, err
			}
			seeds = append(seeds, seed)
		}
	} else {
		return nil, fmt.Errorf("not a file or directory %s", path)
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmpty, path)
	}
	return seeds, nil
}

func readSeed(fsys fs.FS, name string) (Seed, error) {
	var data []byte
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		data, ferr = fs.ReadFile(fsys, name)
		return attempt < 5, ferr
	})
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %q: %w", name, err)
	}
	return Seed{name, data}, nil
}

// Bytes returns the contents of the seeds.
func Bytes(seeds []Seed) [][]byte {
	b := make([][]byte, len(seeds))
	for i, seed := range seeds {
		b[i] = seed.Data
	}
	return b
}
