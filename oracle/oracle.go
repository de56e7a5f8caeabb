// Package oracle runs a fuzz target on candidate inputs and reports whether they still crash it.
package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// FileArg is replaced in every target argument by the path of a file holding the candidate. Without it the candidate is passed on stdin.
const FileArg = "@@"

// ErrNoTarget is returned when no target command is given.
var ErrNoTarget = errors.New("no target command")

// Target is a fuzz target that is executed once per candidate. A run reproduces the failure when the process is terminated by a signal, or exits with a non-zero status when ExitCode is set. When Match is set, the standard error of the run must match as well. Runs exceeding Timeout are killed and do not reproduce.
type Target struct {
	Args     []string
	Env      []string // appended to the environment of the current process
	Timeout  time.Duration
	ExitCode bool
	Match    *regexp.Regexp
	Dir      string // directory for candidate files, the default temporary directory if empty

	execs int
	err   error
}

// New returns a Target running args.
func New(args []string) (*Target, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, ErrNoTarget
	}
	return &Target{Args: args}, nil
}

// Parse returns a Target running the command line, split into arguments as a shell would.
func Parse(cmdline string) (*Target, error) {
	args, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parse target command: %w", err)
	}
	return New(args)
}

// Run executes the target once on candidate and reports whether it reproduces the failure.
func (t *Target) Run(ctx context.Context, candidate []byte) (bool, error) {
	if len(t.Args) == 0 {
		return false, ErrNoTarget
	}

	runCtx := ctx
	if 0 < t.Timeout {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := append([]string{}, t.Args...)
	var stdin io.Reader = bytes.NewReader(candidate)
	if hasFileArg(args) {
		filename, err := t.writeCandidate(candidate)
		if err != nil {
			return false, err
		}
		defer os.Remove(filename)

		for i := range args {
			args[i] = strings.ReplaceAll(args[i], FileArg, filename)
		}
		stdin = nil
	}

	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stderr = stderr
	if 0 < len(t.Env) {
		cmd.Env = append(os.Environ(), t.Env...)
	}
	err := cmd.Run()
	t.execs++

	if ctx.Err() != nil {
		return false, ctx.Err()
	} else if runCtx.Err() != nil {
		return false, nil // timed out
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when terminated by a signal
		crashed := exitErr.ExitCode() == -1 || t.ExitCode
		if crashed && t.Match != nil {
			crashed = t.Match.Match(stderr.Bytes())
		}
		return crashed, nil
	} else if err != nil {
		return false, fmt.Errorf("run target %s: %w", args[0], err)
	}
	return false, nil
}

func hasFileArg(args []string) bool {
	for _, arg := range args {
		if strings.Contains(arg, FileArg) {
			return true
		}
	}
	return false
}

func (t *Target) writeCandidate(candidate []byte) (string, error) {
	f, err := os.CreateTemp(t.Dir, "tmin-*")
	if err != nil {
		return "", fmt.Errorf("create candidate file: %w", err)
	}
	if _, err := f.Write(candidate); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write candidate file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write candidate file: %w", err)
	}
	return f.Name(), nil
}

// Reproduces runs the target on candidate. Errors count as not reproducing, the first one is kept and returned by Err.
func (t *Target) Reproduces(candidate []byte) bool {
	ok, err := t.Run(context.Background(), candidate)
	if err != nil && t.err == nil {
		t.err = err
	}
	return ok
}

// Err returns the first error encountered by Reproduces since the last Reset.
func (t *Target) Err() error {
	return t.err
}

// Reset clears the error kept by Reproduces, so that Err only reports errors of the runs that follow.
func (t *Target) Reset() {
	t.err = nil
}

// Execs returns the number of times the target was executed.
func (t *Target) Execs() int {
	return t.execs
}
