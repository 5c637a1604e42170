package fsys

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/templates"
)

const root = "/project"

func newTestWriter(t *testing.T, files map[string]string) (*Writer, afero.Fs) {
	t.Helper()

	src := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(src, name, []byte(content), 0o644))
	}
	set := templates.NewSet(src, "mem")
	renderer := templates.NewRenderer(set, map[string]any{"app_name": "my_app"})

	dst := afero.NewMemMapFs()
	require.NoError(t, dst.MkdirAll(root, 0o755))
	return NewWriter(dst, root, renderer), dst
}

func readString(t *testing.T, fsys afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, p)
	require.NoError(t, err)
	return string(data)
}

func TestAbs(t *testing.T) {
	w, _ := newTestWriter(t, nil)
	assert.Equal(t, "/project/a/b", w.Abs("a/b"))
	assert.Equal(t, "/elsewhere", w.Abs("/elsewhere/"))
}

func TestEnsureDir(t *testing.T) {
	w, dst := newTestWriter(t, nil)

	require.NoError(t, w.EnsureDir("a/b/c"))
	assert.True(t, w.IsDir("a/b/c"))

	require.NoError(t, afero.WriteFile(dst, "/project/a/b/c/keep", []byte("x"), 0o644))
	require.NoError(t, w.EnsureDir("a/b/c"), "existing directory is a no-op")
	assert.Equal(t, "x", readString(t, dst, "/project/a/b/c/keep"))

	require.NoError(t, w.EnsureDir("/absolute/dir"))
	assert.True(t, w.IsDir("/absolute/dir"), "absolute paths bypass the root")
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	w, dst := newTestWriter(t, nil)
	require.NoError(t, afero.WriteFile(dst, "/project/taken", []byte("x"), 0o644))

	err := w.EnsureDir("taken")
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestWriteFile(t *testing.T) {
	w, dst := newTestWriter(t, nil)

	require.NoError(t, w.WriteFile("README.md", "one"))
	require.NoError(t, w.WriteFile("README.md", "two"))
	assert.Equal(t, "two", readString(t, dst, "/project/README.md"))

	err := w.WriteFile("missing/parent.txt", "x")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteExecutable(t *testing.T) {
	w, dst := newTestWriter(t, nil)
	require.NoError(t, w.EnsureDir(".git/hooks"))

	require.NoError(t, w.WriteFile(".git/hooks/pre-commit", "old"))
	require.NoError(t, w.WriteExecutable(".git/hooks/pre-commit", "#!/bin/sh\n"))

	info, err := dst.Stat("/project/.git/hooks/pre-commit")
	require.NoError(t, err)
	assert.Equal(t, ExecutableMode, info.Mode().Perm())
}

func TestTouch(t *testing.T) {
	w, dst := newTestWriter(t, nil)

	require.NoError(t, w.Touch("__init__.py"))
	assert.Equal(t, "", readString(t, dst, "/project/__init__.py"))

	require.NoError(t, w.WriteFile("__init__.py", "content"))
	require.NoError(t, w.Touch("__init__.py"))
	assert.Equal(t, "content", readString(t, dst, "/project/__init__.py"), "touch keeps existing content")
}

func TestCopyAndRender(t *testing.T) {
	w, dst := newTestWriter(t, map[string]string{
		"raw.html":      "{% block %}{{ not_go }}",
		"name.txt.tmpl": "app={{ .app_name }}",
	})

	require.NoError(t, w.CopyFile("raw.html", "raw.html"))
	assert.Equal(t, "{% block %}{{ not_go }}", readString(t, dst, "/project/raw.html"), "raw copy is byte exact")

	require.NoError(t, w.RenderFile("name.txt.tmpl", "name.txt"))
	assert.Equal(t, "app=my_app", readString(t, dst, "/project/name.txt"))

	err := w.CopyFile("absent", "absent")
	assert.ErrorIs(t, err, oerrors.ErrTemplateNotFound)
}

func TestCopyTemplatedDir(t *testing.T) {
	files := map[string]string{
		"github/actions/setup/action.yml.tmpl": "name: {{ .app_name }}",
		"github/workflows/test.yml.tmpl":       "app: {{ .app_name }}",
		"github/workflows/raw.yml":             "x: ${{ github.ref }}",
		"github/deep/a/b/c.txt":                "deep",
	}
	w, dst := newTestWriter(t, files)

	written, err := w.CopyTemplatedDir("github", ".github")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"actions/setup/action.yml",
		"workflows/test.yml",
		"workflows/raw.yml",
		"deep/a/b/c.txt",
	}, written)

	assert.Equal(t, "name: my_app", readString(t, dst, "/project/.github/actions/setup/action.yml"))
	assert.Equal(t, "app: my_app", readString(t, dst, "/project/.github/workflows/test.yml"))
	assert.Equal(t, "x: ${{ github.ref }}", readString(t, dst, "/project/.github/workflows/raw.yml"))
	assert.Equal(t, "deep", readString(t, dst, "/project/.github/deep/a/b/c.txt"))

	exists, err := afero.Exists(dst, "/project/.github/workflows/test.yml.tmpl")
	require.NoError(t, err)
	assert.False(t, exists, "no marker suffix in output names")

	// The destination subtree now pre-exists; a second run succeeds.
	_, err = w.CopyTemplatedDir("github", ".github")
	require.NoError(t, err)
}

func TestCopyTemplatedDir_MissingSource(t *testing.T) {
	w, _ := newTestWriter(t, nil)
	_, err := w.CopyTemplatedDir("nope", "nope")
	assert.ErrorIs(t, err, oerrors.ErrTemplateNotFound)
}

func TestMove(t *testing.T) {
	w, dst := newTestWriter(t, nil)
	require.NoError(t, w.EnsureDir("app/settings"))
	require.NoError(t, w.WriteFile("app/settings.py", "SETTINGS"))

	moved, err := w.Move("app/settings.py", "app/settings/base.py")
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "SETTINGS", readString(t, dst, "/project/app/settings/base.py"))

	moved, err = w.Move("app/settings.py", "app/settings/base.py")
	require.NoError(t, err)
	assert.False(t, moved, "missing source is a no-op")
}

func TestAppendLines(t *testing.T) {
	w, dst := newTestWriter(t, nil)
	require.NoError(t, w.WriteFile(".gitignore", "*.pyc\n.env"))

	added, err := w.AppendLines(".gitignore", "node_modules/", ".env")
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/", ".env"}, added)
	assert.Equal(t, "*.pyc\n.env\nnode_modules/\n.env\n", readString(t, dst, "/project/.gitignore"))

	added, err = w.AppendLines(".gitignore", "node_modules/", ".env")
	require.NoError(t, err)
	assert.Empty(t, added, "trailing block already present")
	assert.Equal(t, "*.pyc\n.env\nnode_modules/\n.env\n", readString(t, dst, "/project/.gitignore"))
}

func TestAppendLines_PartialTailAppendsWholeBlock(t *testing.T) {
	w, dst := newTestWriter(t, nil)
	require.NoError(t, w.WriteFile(".gitignore", "*.pyc\r\n.env\r\n"))

	added, err := w.AppendLines(".gitignore", "node_modules/", ".env")
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/", ".env"}, added)
	assert.Equal(t, "*.pyc\r\n.env\r\nnode_modules/\n.env\n", readString(t, dst, "/project/.gitignore"))
}

func TestAppendLines_CreatesFile(t *testing.T) {
	w, dst := newTestWriter(t, nil)

	_, err := w.AppendLines(filepath.Join("sub", "..", ".gitignore"), "a")
	require.NoError(t, err)
	assert.Equal(t, "a\n", readString(t, dst, "/project/.gitignore"))
}
