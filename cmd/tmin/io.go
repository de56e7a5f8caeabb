package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matryer/try"
)

// IsDir returns true if dir ends in a path separator or is an existing directory that is not a symlink.
func IsDir(dir string) bool {
	if 0 < len(dir) && dir[len(dir)-1] == os.PathSeparator {
		return true
	}
	info, err := os.Lstat(dir)
	return err == nil && info.Mode().IsDir() && info.Mode()&os.ModeSymlink == 0
}

// SameFile returns true if both paths point to the same file. Paths are compared by file identity and not as strings, since Windows paths are case-insensitive.
func SameFile(filename1 string, filename2 string) (bool, error) {
	infos := [2]os.FileInfo{}
	for i, filename := range []string{filename1, filename2} {
		info, err := os.Stat(filename)
		if err != nil {
			return false, err
		}
		infos[i] = info
	}
	return os.SameFile(infos[0], infos[1]), nil
}

// readCrash reads the crash input from filename, or from stdin when filename is empty. Opening is retried since fuzzers may still hold the file.
func readCrash(filename string) ([]byte, error) {
	if filename == "" {
		return io.ReadAll(os.Stdin)
	}

	var r *os.File
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		r, ferr = os.Open(filename)
		return attempt < 5, ferr
	})
	if err != nil {
		return nil, fmt.Errorf("open crash file %q: %w", filename, err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read crash file %q: %w", filename, err)
	}
	return b, nil
}

// writeResult writes the minimized input to filename, creating its directory, or to stdout when filename is empty.
func writeResult(filename string, b []byte) error {
	if filename == "" {
		_, err := os.Stdout.Write(b)
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}

	var w *os.File
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		w, ferr = os.OpenFile(filename, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0666)
		return attempt < 5, ferr
	})
	if err != nil {
		return fmt.Errorf("open output file %q: %w", filename, err)
	}

	if _, err := w.Write(b); err != nil {
		w.Close()
		return fmt.Errorf("write output file %q: %w", filename, err)
	}
	return w.Close()
}
