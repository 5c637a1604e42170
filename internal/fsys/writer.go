// Package fsys provides the file operations the assembler builds a project
// tree with. Relative paths are rooted at the destination; absolute paths
// are used as given.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/templates"
)

// File modes for written entries.
const (
	DirMode        fs.FileMode = 0o755
	FileMode       fs.FileMode = 0o644
	ExecutableMode fs.FileMode = 0o755
)

// Writer writes into one destination tree.
type Writer struct {
	fs       afero.Fs
	root     string
	renderer *templates.Renderer
}

// NewWriter creates a writer rooted at root. renderer supplies the template
// set for copies and renders.
func NewWriter(fsys afero.Fs, root string, renderer *templates.Renderer) *Writer {
	return &Writer{fs: fsys, root: root, renderer: renderer}
}

// Fs returns the filesystem the writer operates on.
func (w *Writer) Fs() afero.Fs {
	return w.fs
}

// Root returns the destination root.
func (w *Writer) Root() string {
	return w.root
}

// Abs resolves p against the root.
func (w *Writer) Abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(w.root, p)
}

// Exists reports whether p exists.
func (w *Writer) Exists(p string) bool {
	ok, err := afero.Exists(w.fs, w.Abs(p))
	return err == nil && ok
}

// IsDir reports whether p is an existing directory.
func (w *Writer) IsDir(p string) bool {
	ok, err := afero.IsDir(w.fs, w.Abs(p))
	return err == nil && ok
}

// EnsureDir creates p and any missing parents. Existing directories are left
// untouched; a file in the way is an error.
func (w *Writer) EnsureDir(p string) error {
	abs := w.Abs(p)
	if info, err := w.fs.Stat(abs); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("creating directory %s: %w", abs, fs.ErrExist)
	}
	if err := w.fs.MkdirAll(abs, DirMode); err != nil {
		return fmt.Errorf("creating directory %s: %w", abs, err)
	}
	return nil
}

// WriteFile creates or overwrites p with content. The parent directory must exist.
func (w *Writer) WriteFile(p, content string) error {
	return w.write(p, []byte(content), FileMode)
}

// WriteExecutable is WriteFile with an executable mode.
func (w *Writer) WriteExecutable(p, content string) error {
	return w.write(p, []byte(content), ExecutableMode)
}

func (w *Writer) write(p string, data []byte, mode fs.FileMode) error {
	abs := w.Abs(p)
	if !w.IsDir(filepath.Dir(abs)) {
		return fmt.Errorf("writing %s: parent directory does not exist: %w", abs, fs.ErrNotExist)
	}
	if err := afero.WriteFile(w.fs, abs, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", abs, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := w.fs.Chmod(abs, mode); err != nil {
		return fmt.Errorf("setting mode of %s: %w", abs, err)
	}
	return nil
}

// Touch creates an empty file at p unless one exists.
func (w *Writer) Touch(p string) error {
	if w.Exists(p) {
		return nil
	}
	return w.WriteFile(p, "")
}

// CopyFile copies template src byte for byte to p.
func (w *Writer) CopyFile(src, p string) error {
	data, err := w.renderer.Set().ReadFile(src)
	if err != nil {
		return err
	}
	return w.write(p, data, FileMode)
}

// RenderFile renders template src and writes the result to p.
func (w *Writer) RenderFile(src, p string) error {
	content, err := w.renderer.Render(src)
	if err != nil {
		return err
	}
	return w.WriteFile(p, content)
}

// CopyTemplatedDir mirrors template directory src into p. Templated files
// are rendered with the marker stripped from their names; all other files
// are copied byte for byte. Returns the written files relative to p.
func (w *Writer) CopyTemplatedDir(src, p string) ([]string, error) {
	set := w.renderer.Set()
	if !set.IsDir(src) {
		return nil, oerrors.NewTemplateNotFoundError(src, set.Root())
	}
	if err := w.EnsureDir(p); err != nil {
		return nil, err
	}

	var written []string
	err := set.Walk(src, func(e templates.Entry) error {
		from := path.Join(src, e.Rel)
		to := filepath.Join(p, filepath.FromSlash(templates.OutputName(e.Rel)))

		switch {
		case e.IsDir:
			return w.EnsureDir(to)
		case templates.IsTemplated(e.Rel):
			if err := w.RenderFile(from, to); err != nil {
				return err
			}
		default:
			if err := w.CopyFile(from, to); err != nil {
				return err
			}
		}
		written = append(written, templates.OutputName(e.Rel))
		return nil
	})
	if err != nil {
		return written, err
	}
	return written, nil
}

// Move renames src to dst. A missing src is not an error and reports false.
func (w *Writer) Move(src, dst string) (bool, error) {
	from, to := w.Abs(src), w.Abs(dst)
	if _, err := w.fs.Stat(from); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("moving %s: %w", from, err)
	}
	if err := w.fs.Rename(from, to); err != nil {
		return false, fmt.Errorf("moving %s to %s: %w", from, to, err)
	}
	return true, nil
}

// ReadFile returns the content of p.
func (w *Writer) ReadFile(p string) ([]byte, error) {
	data, err := afero.ReadFile(w.fs, w.Abs(p))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", w.Abs(p), err)
	}
	return data, nil
}

// AppendLines appends lines as one block at the end of p, creating p when
// missing. Nothing is written when p already ends with exactly that block;
// the same lines elsewhere in p do not count. Returns the lines added.
func (w *Writer) AppendLines(p string, lines ...string) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	abs := w.Abs(p)

	existing, err := afero.ReadFile(w.fs, abs)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", abs, err)
	}

	content := strings.ReplaceAll(string(existing), "\r\n", "\n")
	tail := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(tail) >= len(lines) && slices.Equal(tail[len(tail)-len(lines):], lines) {
		return nil, nil
	}

	out := string(existing)
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	out += strings.Join(lines, "\n") + "\n"

	if err := w.WriteFile(p, out); err != nil {
		return nil, err
	}
	return append([]string(nil), lines...), nil
}
