package testutil

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

func TestFakeRunner_StartProject(t *testing.T) {
	dir := t.TempDir()
	r := NewFakeRunner()

	_, err := r.Run(context.Background(), []string{"django-admin", "startproject", "blog"}, dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "blog", "manage.py"))
	settings := ReadFile(t, dir, "blog/blog/settings.py")
	assert.Contains(t, settings, "SECRET_KEY")
	assert.Contains(t, settings, `"blog.urls"`)

	_, err = r.Run(context.Background(), []string{"django-admin", "startproject", "blog"}, dir)
	assert.ErrorIs(t, err, oerrors.ErrCommandFailed, "existing directory needs the second argument")
}

func TestFakeRunner_StartProjectIntoExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "blog"), 0o755))

	r := NewFakeRunner()
	_, err := r.Run(context.Background(), []string{"django-admin", "startproject", "blog", "blog"}, dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "blog", "blog", "settings.py"))
}

func TestFakeRunner_Git(t *testing.T) {
	dir := t.TempDir()
	r := NewFakeRunner()

	_, err := r.Run(context.Background(), []string{"git", "init", "."}, dir)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), []string{"git", "branch", "-M", "main"}, dir)
	require.NoError(t, err)

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Storer.Reference(plumbing.HEAD)
	require.NoError(t, err)
	assert.Equal(t, "main", head.Target().Short())
}

func TestFakeRunner_Gulp(t *testing.T) {
	dir := t.TempDir()
	WriteFile(t, dir, "gulpfile.js", `uswds.paths.dist.css = "./a/a/static/css";
uswds.paths.dist.js = "./a/a/static/js";
uswds.paths.dist.img = "./a/a/static/img";
uswds.paths.dist.fonts = "./a/a/static/fonts";
uswds.paths.dist.theme = "./a/a/static/sass";
`)

	r := NewFakeRunner()
	_, err := r.Run(context.Background(), []string{"npx", "gulp", "init"}, dir)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), []string{"npx", "gulp", "compile"}, dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "a", "a", "static", "js", "uswds.min.js"))
	assert.FileExists(t, filepath.Join(dir, "a", "a", "static", "css", "styles.css"))
}

func TestFakeRunner_FailOn(t *testing.T) {
	dir := t.TempDir()
	r := NewFakeRunner()
	r.FailOn("npm install", 2)

	res, err := r.Run(context.Background(), []string{"npm", "install"}, dir)
	require.Error(t, err)

	var cmdErr *oerrors.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 2, cmdErr.ExitCode)
	assert.Equal(t, 2, res.ExitCode)
	assert.NoDirExists(t, filepath.Join(dir, "node_modules"))
	assert.Equal(t, []string{"npm install"}, r.Commands())
}

func TestRemoteServer(t *testing.T) {
	rs := NewRemoteServer(t)

	resp, err := http.Get(rs.PolicyBaseURL() + "/LICENSE.md")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rs.FailPath("/policy/LICENSE.md", http.StatusBadGateway)
	resp, err = http.Get(rs.PolicyBaseURL() + "/LICENSE.md")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	assert.Equal(t, []string{"/policy/LICENSE.md", "/policy/LICENSE.md"}, rs.Requests())
}
