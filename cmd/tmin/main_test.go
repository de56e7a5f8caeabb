package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tdewolff/test"
	"github.com/tdewolff/tmin"
	"github.com/tdewolff/tmin/corpus"
	"github.com/tdewolff/tmin/oracle"
)

func TestMain(m *testing.M) {
	Error = log.New(io.Discard, "", 0)
	Warning = log.New(io.Discard, "", 0)
	Info = log.New(io.Discard, "", 0)
	quiet = true
	os.Exit(m.Run())
}

// crashes when the candidate, passed as a file path, contains "crash"
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		os.Exit(0)
	}

	b, _ := os.ReadFile(args[0])
	if bytes.Contains(b, []byte("crash")) {
		os.Exit(1)
	}
	os.Exit(0)
}

func newTestMinimizer(t *testing.T, seeds ...string) *minimizer {
	target, err := oracle.New([]string{os.Args[0], "-test.run=TestHelperProcess", "--", oracle.FileArg})
	test.Error(t, err)
	target.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	target.ExitCode = true
	target.Timeout = 10 * time.Second

	corp := []corpus.Seed{}
	for i, seed := range seeds {
		corp = append(corp, corpus.Seed{Name: string(rune('a' + i)), Data: []byte(seed)})
	}
	return &minimizer{tmin.NewSession(corpus.Bytes(corp), target, nil), target, corp}
}

func TestCrashFile(t *testing.T) {
	var crashFileTests = []struct {
		filename string
		expected bool
	}{
		{"id:000000,sig:11", true},
		{"dir/crash-da39a3ee", true},
		{"README.txt", false},
		{"out/readme.TXT", false},
		{".state", false},
		{"dir/.cur_input", false},
	}
	for _, tt := range crashFileTests {
		t.Run(tt.filename, func(t *testing.T) {
			test.T(t, crashFile(tt.filename), tt.expected)
		})
	}
}

func TestMinimize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "crash")
	dst := filepath.Join(dir, "out", "crash")
	test.Error(t, os.WriteFile(src, []byte("hello crash"), 0644))

	m := newTestMinimizer(t, "zzz", "hello world")
	test.That(t, m.minimize(src, dst), "minimize must succeed")

	b, err := os.ReadFile(dst)
	test.Error(t, err)
	test.String(t, string(b), "hello crash")
	test.That(t, 0 < m.target.Execs())
}

func TestMinimizeNotReproducible(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "crash")
	dst := filepath.Join(dir, "out")
	test.Error(t, os.WriteFile(src, []byte("benign"), 0644))

	m := newTestMinimizer(t, "hello")
	test.That(t, !m.minimize(src, dst), "minimize must fail")
	_, err := os.Stat(dst)
	test.That(t, os.IsNotExist(err), "no output must be written")
}

func TestMinimizeTargetErrorPerCrash(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "crash")
	test.Error(t, os.WriteFile(src, []byte("benign"), 0644))

	buf := &bytes.Buffer{}
	Error = log.New(buf, "", 0)
	defer func() {
		Error = log.New(io.Discard, "", 0)
	}()

	m := newTestMinimizer(t, "hello")
	args := m.target.Args
	m.target.Args = []string{filepath.Join(dir, "missing-target")}
	test.That(t, !m.minimize(src, ""), "minimize must fail")
	test.That(t, bytes.Contains(buf.Bytes(), []byte("missing-target")), "target error must be logged")

	buf.Reset()
	m.target.Args = args
	test.That(t, !m.minimize(src, ""), "minimize must fail")
	test.That(t, !bytes.Contains(buf.Bytes(), []byte("missing-target")), "target error of an earlier crash must not be logged")
}

func TestMinimizeMissingInput(t *testing.T) {
	m := newTestMinimizer(t, "hello")
	test.That(t, !m.minimize(filepath.Join(t.TempDir(), "missing"), ""), "minimize must fail")
}

func TestPreserveAttributes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	test.Error(t, os.WriteFile(src, []byte("a"), 0600))
	test.Error(t, os.WriteFile(dst, []byte("b"), 0644))
	modTime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	test.Error(t, os.Chtimes(src, modTime, modTime))

	preserveMode, preserveTimestamps = true, true
	defer func() {
		preserveMode, preserveTimestamps = false, false
	}()
	preserveAttributes(src, dst)

	info, err := os.Stat(dst)
	test.Error(t, err)
	test.That(t, info.ModTime().Equal(modTime), "modification time must be preserved")
	if supportsOwnership {
		test.T(t, info.Mode().Perm(), os.FileMode(0600))
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	watcher, err := newCrashWatcher(dir)
	test.Error(t, err)
	changes := watcher.Crashes()

	test.Error(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("fuzzer notes"), 0644))
	test.Error(t, os.Mkdir(filepath.Join(dir, "queue"), 0755))
	filename := filepath.Join(dir, "crash")
	test.Error(t, os.WriteFile(filename, []byte("crash"), 0644))

	select {
	case file := <-changes:
		test.String(t, file, filename)
	case <-time.After(5 * time.Second):
		t.Fatal("no change received")
	}

	test.Error(t, watcher.Close())
	for range changes {
	}
}
