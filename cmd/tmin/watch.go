package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// crashWatcher reports crash files that fuzzers add to a crash directory.
type crashWatcher struct {
	fsw    *fsnotify.Watcher
	dir    string
	settle time.Duration // time without writes before a file is considered complete
}

func newCrashWatcher(dir string) (*crashWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir = filepath.Clean(dir)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &crashWatcher{fsw, dir, 100 * time.Millisecond}, nil
}

func (w *crashWatcher) Close() error {
	return w.fsw.Close()
}

// Crashes sends the path of every crash file created or written in the directory, once it has not been written to for the settle duration. The channel is closed after Close.
func (w *crashWatcher) Crashes() <-chan string {
	crashes := make(chan string, 10)
	go func() {
		defer close(crashes)
		ticker := time.NewTicker(w.settle / 2)
		defer ticker.Stop()

		pending := map[string]time.Time{}
		events, errs := w.fsw.Events, w.fsw.Errors
		for events != nil || errs != nil {
			select {
			case event, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && filepath.Dir(event.Name) == w.dir && crashFile(event.Name) {
					pending[event.Name] = time.Now()
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				Error.Println(err)
			case now := <-ticker.C:
				for name, t := range pending {
					if now.Sub(t) < w.settle {
						continue
					}
					delete(pending, name)
					if info, err := os.Lstat(name); err == nil && info.Mode().IsRegular() {
						crashes <- name
					}
				}
			}
		}
	}()
	return crashes
}
