// Package templates provides the project template set and its renderer.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

// Marker is the file name suffix of templated files.
const Marker = ".tmpl"

// EmbeddedRoot is how the built-in template root is reported.
const EmbeddedRoot = "embedded"

//go:embed all:files
var embedded embed.FS

// Set is a read-only template root. Names are slash separated and relative
// to the root.
type Set struct {
	fs   afero.Fs
	root string
}

// NewSet wraps fsys as a template set. root is only used in messages.
func NewSet(fsys afero.Fs, root string) *Set {
	return &Set{fs: afero.NewReadOnlyFs(fsys), root: root}
}

// Embedded returns the template set compiled into the binary.
func Embedded() *Set {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// fs.Sub only fails on an invalid literal directory name.
		panic(err)
	}
	return NewSet(afero.FromIOFS{FS: sub}, EmbeddedRoot)
}

// Dir returns a template set rooted at an on-disk directory.
func Dir(dir string) (*Set, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, oerrors.NewTemplateNotFoundError(".", dir)
	}
	if !info.IsDir() {
		return nil, oerrors.NewTemplateNotFoundError(".", dir)
	}
	return NewSet(afero.NewBasePathFs(afero.NewOsFs(), dir), dir), nil
}

// Root describes where the set is loaded from.
func (s *Set) Root() string {
	return s.root
}

// Fs returns the read-only filesystem backing the set.
func (s *Set) Fs() afero.Fs {
	return s.fs
}

// IsTemplated reports whether name carries the template marker.
func IsTemplated(name string) bool {
	return strings.HasSuffix(name, Marker)
}

// OutputName strips the template marker from name, if present.
func OutputName(name string) string {
	return strings.TrimSuffix(name, Marker)
}

// ReadFile returns the raw bytes of the named file.
func (s *Set) ReadFile(name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, clean(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewTemplateNotFoundError(name, s.root)
		}
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	return data, nil
}

// IsDir reports whether name is a directory in the set.
func (s *Set) IsDir(name string) bool {
	ok, err := afero.IsDir(s.fs, clean(name))
	return err == nil && ok
}

// Entry is one file or directory found by Walk.
type Entry struct {
	// Rel is the slash separated path relative to the walked directory.
	Rel   string
	IsDir bool
}

// Walk visits dir recursively in lexical order, calling fn for every entry
// below it (dir itself excluded).
func (s *Set) Walk(dir string, fn func(Entry) error) error {
	root := clean(dir)
	if !s.IsDir(root) {
		return oerrors.NewTemplateNotFoundError(dir, s.root)
	}

	return afero.Walk(s.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(toSlash(p), root), "/")
		if root == "." {
			rel = strings.TrimPrefix(toSlash(p), "./")
			if rel == "." {
				rel = ""
			}
		}
		if rel == "" {
			return nil
		}
		return fn(Entry{Rel: rel, IsDir: info.IsDir()})
	})
}

// List returns the output names of every file in the set, sorted. A
// non-empty pattern filters names with doublestar glob syntax ("**/*.py").
func (s *Set) List(pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("invalid pattern %q", pattern), "--match", "use glob syntax such as settings/*.py or **/*.yml")
	}

	var names []string
	err := s.Walk(".", func(e Entry) error {
		if e.IsDir {
			return nil
		}
		name := OutputName(e.Rel)
		if pattern != "" {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

func clean(name string) string {
	p := path.Clean(toSlash(name))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
