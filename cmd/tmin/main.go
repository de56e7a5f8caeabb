package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/djherbis/atime"
	humanize "github.com/dustin/go-humanize"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/tmin"
	"github.com/tdewolff/tmin/corpus"
	"github.com/tdewolff/tmin/oracle"
)

// Version is the current tmin version.
var Version = "built from source"

var (
	quiet              bool
	verbose            int
	version            bool
	watch              bool
	exitCode           bool
	timeout            int
	match              string
	preserve           []string
	preserveMode       bool
	preserveOwnership  bool
	preserveTimestamps bool
)

// Loggers.
var (
	Error   *log.Logger
	Warning *log.Logger
	Info    *log.Logger
)

func main() {
	// os.Exit doesn't execute pending defer calls, this is fixed by encapsulating run()
	os.Exit(run())
}

func run() int {
	var args []string
	var cmdline string
	var input string
	var output string
	var seedPath string

	defaultPreserve := []string{"mode", "timestamps"}
	if supportsOwnership {
		defaultPreserve = []string{"mode", "ownership", "timestamps"}
	}

	f := argp.New("tmin")
	f.AddRest(&args, "target", "Target command and arguments, @@ is replaced by the path of a file holding the candidate, otherwise the candidate is passed on stdin")
	f.AddOpt(&input, "i", "input", nil, "Crash file, or crash directory with --watch")
	f.AddOpt(&output, "o", "output", nil, "Output file, or output directory with --watch, leave blank to use stdout")
	f.AddOpt(&seedPath, "d", "seeds", nil, "Seed file or directory of seed files")
	f.AddOpt(&cmdline, "c", "cmd", nil, "Target command line, instead of passing the target as arguments")
	f.AddOpt(&timeout, "t", "timeout", 1000, "Timeout for each target execution in milliseconds, 0 disables")
	f.AddOpt(&exitCode, "e", "exit-code", false, "Treat a non-zero exit status as a crash")
	f.AddOpt(&match, "m", "match", nil, "Regular expression that stderr must match to count as the same crash")
	f.AddOpt(&watch, "w", "watch", false, "Watch the crash directory and minimize new crashes")
	f.AddOpt(&preserve, "p", "preserve", defaultPreserve, "Preserve options of the crash file (mode, ownership, timestamps, all)")
	f.AddOpt(&quiet, "q", "quiet", false, "Quiet mode to suppress all output")
	f.AddOpt(argp.Count{I: &verbose}, "v", "verbose", nil, "Verbose mode, set twice for more verbosity")
	f.AddOpt(&version, "", "version", false, "Version")
	f.Parse()

	if version {
		if !quiet {
			fmt.Printf("tmin %s\n", Version)
		}
		return 0
	}

	Error = log.New(ioutil.Discard, "", 0)
	Warning = log.New(ioutil.Discard, "", 0)
	Info = log.New(ioutil.Discard, "", 0)
	level := tmin.Quiet
	if !quiet {
		Error = log.New(os.Stderr, "ERROR: ", 0)
		if 0 < verbose {
			Warning = log.New(os.Stderr, "WARNING: ", 0)
			level = tmin.Concise
		}
		if 1 < verbose {
			Info = log.New(os.Stderr, "INFO: ", 0)
			level = tmin.Verbose
		}
	}

	if input == "-" {
		input = "" // stdin
	}
	if output == "-" {
		output = "" // stdout
	}

	if cmdline != "" && 0 < len(args) {
		Error.Println("must specify either --cmd or target arguments")
		return 1
	} else if input == "" && !f.IsSet("input") {
		Error.Println("must specify --input")
		return 1
	} else if watch && (input == "" || output == "") {
		Error.Println("--watch doesn't work with stdin and stdout, specify input and output directories")
		return 1
	} else if watch && !IsDir(input) {
		Error.Println("--watch requires the input to be a directory")
		return 1
	}

	var err error
	var target *oracle.Target
	if cmdline != "" {
		target, err = oracle.Parse(cmdline)
	} else {
		target, err = oracle.New(args)
	}
	if err != nil {
		Error.Println(err)
		return 1
	}
	target.Timeout = time.Duration(timeout) * time.Millisecond
	target.ExitCode = exitCode
	if match != "" {
		if target.Match, err = regexp.Compile(match); err != nil {
			Error.Println(err)
			return 1
		}
	}

	for _, option := range preserve {
		switch option {
		case "all":
			preserveMode = true
			preserveOwnership = true
			preserveTimestamps = true
		case "mode":
			preserveMode = true
		case "ownership":
			preserveOwnership = true
		case "timestamps":
			preserveTimestamps = true
		default:
			Error.Println("unknown preserve option", option)
			return 1
		}
	}
	if preserveOwnership && !supportsOwnership {
		Warning.Println(fmt.Errorf("preserve ownership not supported on platform"))
	}

	var seeds []corpus.Seed
	if seedPath == "" {
		Warning.Println("no seeds specified, use \"hello\" as default seed")
		seeds = corpus.Default()
	} else if seeds, err = corpus.Load(corpus.OS(), seedPath); err != nil {
		Error.Println(err)
		return 1
	}
	Info.Println("read", len(seeds), "seeds")

	s := tmin.NewSession(corpus.Bytes(seeds), target, tmin.NewReporter(os.Stderr, level))
	m := &minimizer{s, target, seeds}

	////////////////

	if !watch {
		if ok := m.minimize(input, output); !ok {
			return 1
		}
		return 0
	}

	output = filepath.Clean(output)
	if same, _ := SameFile(input, output); same {
		Error.Println("--watch requires the output directory to differ from the input directory")
		return 1
	} else if err := os.MkdirAll(output, 0777); err != nil {
		Error.Println(err)
		return 1
	}

	watcher, err := newCrashWatcher(input)
	if err != nil {
		Error.Println(err)
		return 1
	}
	defer watcher.Close()
	changes := watcher.Crashes()

	fails := 0
	done := map[string]bool{}
	process := func(file string) {
		file = filepath.Clean(file)
		if done[file] || !crashFile(file) {
			return
		}
		done[file] = true
		if ok := m.minimize(file, filepath.Join(output, filepath.Base(file))); !ok {
			fails++
		}
	}

	Info.Println("loading initial crashes from", input)
	entries, err := os.ReadDir(input)
	if err != nil {
		Error.Println(err)
		return 1
	}
	for _, d := range entries {
		if d.Type().IsRegular() {
			process(filepath.Join(input, d.Name()))
		}
	}

	Info.Println("watching crash directory", input)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	for changes != nil {
		select {
		case <-c:
			watcher.Close()
		case file, ok := <-changes:
			if !ok {
				changes = nil
				break
			}
			process(file)
		}
	}
	Info.Println("minimized", len(done)-fails, "of", len(done), "crashes")
	return 0
}

// crashFile returns false for the files that fuzzers put in crash directories besides crashes.
func crashFile(filename string) bool {
	base := filepath.Base(filename)
	return base != "" && base[0] != '.' && !strings.EqualFold(base, "README.txt")
}

type minimizer struct {
	session *tmin.Session
	target  *oracle.Target
	seeds   []corpus.Seed
}

func (m *minimizer) minimize(src, dst string) bool {
	srcName := src
	if srcName == "" {
		srcName = "stdin"
	}
	dstName := dst
	if dstName == "" {
		dstName = "stdout"
	}

	b, err := readCrash(src)
	if err != nil {
		Error.Println("cannot minimize "+srcName+":", err)
		return false
	}

	startTime := time.Now()
	execs := m.target.Execs()
	m.target.Reset()
	res, err := m.session.Minimize(b)
	if err != nil {
		if terr := m.target.Err(); terr != nil {
			Error.Println(terr)
		}
		Error.Println("cannot minimize "+srcName+":", err)
		return false
	}
	execs = m.target.Execs() - execs
	Info.Println("nearest seed", m.seeds[res.Seed].Name, "at distance", res.Distance, "reduced to", len(res.Trace), "edits")

	if err := writeResult(dst, res.Output); err != nil {
		Error.Println("cannot write "+dstName+":", err)
		return false
	}

	if !quiet {
		dur := time.Since(startTime)
		ratio := 1.0
		if 0 < len(b) {
			ratio = float64(len(res.Output)) / float64(len(b))
		}
		stats := fmt.Sprintf("(%9v, %6v, %6v, %5.1f%%, %5d execs)", dur.Round(time.Millisecond), humanize.Bytes(uint64(len(b))), humanize.Bytes(uint64(len(res.Output))), ratio*100, execs)
		fmt.Fprintln(os.Stderr, stats, "-", srcName, "to", dstName)
	}
	preserveAttributes(src, dst)
	return true
}

func preserveAttributes(src, dst string) {
	if src == "" || dst == "" {
		return
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		Warning.Println(err)
		return
	}

	if preserveMode {
		err = os.Chmod(dst, srcInfo.Mode().Perm())
		if err != nil {
			Warning.Println(err)
		}
	}
	if preserveOwnership {
		if err := copyOwnership(dst, srcInfo); err != nil {
			Warning.Println(err)
		}
	}
	if preserveTimestamps {
		err = os.Chtimes(dst, atime.Get(srcInfo), srcInfo.ModTime())
		if err != nil {
			Warning.Println(err)
		}
	}
}
