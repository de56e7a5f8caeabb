package corpus

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/tdewolff/test"
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"a":          {Data: []byte("hello")},
		"dir/b":      {Data: []byte("foo")},
		"dir/a":      {Data: []byte("bar")},
		"dir/.c":     {Data: []byte("hidden")},
		"dir/sub/d":  {Data: []byte("nested")},
		"empty/.git": {Data: []byte("")},
		"zero":       {Data: []byte{}},
	}

	var loadTests = []struct {
		path  string
		names []string
		data  []string
	}{
		{"a", []string{"a"}, []string{"hello"}},
		{"zero", []string{"zero"}, []string{""}},
		{"dir", []string{"dir/a", "dir/b"}, []string{"bar", "foo"}},
		{"dir/", []string{"dir/a", "dir/b"}, []string{"bar", "foo"}},
		{"dir/sub", []string{"dir/sub/d"}, []string{"nested"}},
	}
	for _, tt := range loadTests {
		t.Run(tt.path, func(t *testing.T) {
			seeds, err := Load(fsys, tt.path)
			test.Error(t, err)
			test.T(t, len(seeds), len(tt.names), "number of seeds")
			for i, seed := range seeds {
				test.String(t, seed.Name, tt.names[i])
				test.String(t, string(seed.Data), tt.data[i])
			}
			test.T(t, len(Bytes(seeds)), len(seeds))
		})
	}
}

func TestLoadErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"empty/.hidden": {Data: []byte("x")},
	}

	_, err := Load(fsys, "missing")
	test.That(t, errors.Is(err, ErrNotExist), "missing path")

	_, err = Load(fsys, "empty")
	test.That(t, errors.Is(err, ErrEmpty), "directory without seeds")
}

func TestDefault(t *testing.T) {
	seeds := Default()
	test.T(t, len(seeds), 1)
	test.String(t, string(seeds[0].Data), "hello")
}
