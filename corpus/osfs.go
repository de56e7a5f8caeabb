package corpus

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OS returns the file system of the host. Unlike os.DirFS, it accepts absolute paths as well as paths relative to the working directory, since seed paths are given on the command line.
func OS() fs.FS {
	return osFS{}
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(filepath.FromSlash(name))
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(filepath.FromSlash(name))
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.FromSlash(name))
}

// ReadDir returns the entries sorted by filename.
func (osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(filepath.FromSlash(name))
}
