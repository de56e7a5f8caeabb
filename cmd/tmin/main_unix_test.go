//go:build linux || darwin || netbsd || solaris || openbsd || js || wasm
// +build linux darwin netbsd solaris openbsd js wasm

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/test"
)

func TestIsDirUnix(t *testing.T) {
	dir := t.TempDir()
	crash := filepath.Join(dir, "id:000000,sig:11")
	test.Error(t, os.WriteFile(crash, []byte("crash"), 0644))
	link := filepath.Join(dir, "crashes")
	test.Error(t, os.Symlink(dir, link))

	cases := []struct {
		name     string
		dir      string
		expected bool
	}{
		{"MissingFile", "out", false},
		{"MissingDirectory", "out/", true},
		{"CrashFile", crash, false},
		{"CrashDirectory", dir, true},
		{"SymlinkedDirectory", link, false},
		{"SymlinkedDirectorySlash", link + "/", true},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			test.T(t, IsDir(c.dir), c.expected)
		})
	}
}

func TestSameFileUnix(t *testing.T) {
	dir := t.TempDir()
	same, err := SameFile(dir, dir+"/.")
	test.Error(t, err)
	test.That(t, same, "directory must equal itself")

	out := filepath.Join(dir, "out")
	test.Error(t, os.Mkdir(out, 0755))
	same, err = SameFile(dir, out)
	test.Error(t, err)
	test.That(t, !same, "nested directory must differ")

	_, err = SameFile(dir, filepath.Join(dir, "missing"))
	test.That(t, err != nil, "missing file must fail")
}

func TestCopyOwnership(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	test.Error(t, os.WriteFile(src, []byte("a"), 0644))
	test.Error(t, os.WriteFile(dst, []byte("b"), 0644))

	info, err := os.Stat(src)
	test.Error(t, err)
	test.Error(t, copyOwnership(dst, info))
	test.That(t, copyOwnership(filepath.Join(dir, "missing"), info) != nil, "missing file must fail")
}
