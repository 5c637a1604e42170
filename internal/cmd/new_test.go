package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/djangogen/internal/cmdtypes"
	"github.com/opmodel/djangogen/internal/config"
	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/testutil"
)

type newHarness struct {
	cfg    *cmdtypes.GlobalConfig
	runner *testutil.FakeRunner
	wd     string
	tty    bool
}

func newNewHarness(t *testing.T) *newHarness {
	t.Helper()

	remote := testutil.NewRemoteServer(t)
	settings := config.DefaultSettings()
	settings.Remote.PolicyBaseURL = remote.PolicyBaseURL()
	settings.Remote.GitignoreURL = remote.GitignoreURL()

	wd := filepath.Join(t.TempDir(), "work")
	require.NoError(t, os.Mkdir(wd, 0o755))

	return &newHarness{
		cfg:    &cmdtypes.GlobalConfig{Settings: settings},
		runner: testutil.NewFakeRunner(),
		wd:     wd,
	}
}

func (h *newHarness) execute(input string, args ...string) (string, error) {
	var stdout bytes.Buffer
	c := newNewCmd(h.cfg, newDeps{
		runner:   h.runner,
		workDir:  func() (string, error) { return h.wd, nil },
		terminal: func(io.Reader) bool { return h.tty },
	})
	c.SetIn(strings.NewReader(input))
	c.SetOut(&stdout)
	c.SetErr(io.Discard)
	c.SetArgs(args)
	err := c.Execute()
	return stdout.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	return exitErr.Code
}

func TestNew_NoInput(t *testing.T) {
	h := newNewHarness(t)

	out, err := h.execute("", "my-site", "--no-input", "--github-actions")
	require.NoError(t, err)

	root := filepath.Join(h.wd, "my-site")
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.FileExists(t, filepath.Join(root, "my_site", "manage.py"))
	assert.DirExists(t, filepath.Join(root, ".github"))
	assert.NoDirExists(t, filepath.Join(root, ".circleci"))

	assert.Contains(t, out, "create_readme")
	assert.Contains(t, out, "set_up_circleci")
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "README.md")
}

func TestNew_NoInputRequiresName(t *testing.T) {
	h := newNewHarness(t)

	_, err := h.execute("", "--no-input")
	require.Error(t, err)
	assert.Equal(t, cmdtypes.ExitValidationError, exitCode(t, err))
	assert.Empty(t, h.runner.Commands())
}

func TestNew_PromptsWithoutArgument(t *testing.T) {
	h := newNewHarness(t)
	h.tty = true

	// name, then uswds, circleci, github actions, terraform
	out, err := h.execute("blog\n\ny\n\n\n")
	require.NoError(t, err)

	root := filepath.Join(filepath.Dir(h.wd), "blog")
	assert.FileExists(t, filepath.Join(root, "blog", "manage.py"))
	assert.FileExists(t, filepath.Join(root, ".circleci", "config.yml"))
	assert.NoDirExists(t, filepath.Join(h.wd, "blog"))
	assert.Contains(t, out, "What is the name of your project?")
}

func TestNew_PromptSkipsSuppliedFlags(t *testing.T) {
	h := newNewHarness(t)
	h.tty = true

	// uswds, github actions, then terraform and its three spaces
	out, err := h.execute("\n\ny\norg-1\n\n\n", "site", "--circleci")
	require.NoError(t, err)

	assert.NotContains(t, out, "CircleCI")
	root := filepath.Join(h.wd, "site")
	assert.FileExists(t, filepath.Join(root, ".circleci", "config.yml"))
	assert.DirExists(t, filepath.Join(root, "terraform"))
	assert.Contains(t, testutil.ReadFile(t, root, "terraform/providers.tf"), `name = "org-1"`)
}

func TestNew_InvalidVar(t *testing.T) {
	h := newNewHarness(t)

	_, err := h.execute("", "site", "--no-input", "--var", "novalue")
	require.Error(t, err)
	assert.Equal(t, cmdtypes.ExitValidationError, exitCode(t, err))
}

func TestNew_SettingsError(t *testing.T) {
	h := newNewHarness(t)
	h.cfg.SettingsErr = errors.New("bad settings")

	_, err := h.execute("", "site", "--no-input")
	require.Error(t, err)
	assert.Equal(t, cmdtypes.ExitValidationError, exitCode(t, err))
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestNew_CommandFailureLeavesPartialTree(t *testing.T) {
	h := newNewHarness(t)
	h.runner.FailOn("git init", 128)

	out, err := h.execute("", "site", "--no-input")
	require.Error(t, err)
	assert.Equal(t, cmdtypes.ExitCommandFailed, exitCode(t, err))
	assert.ErrorIs(t, err, oerrors.ErrCommandFailed)

	root := filepath.Join(h.wd, "site")
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.NoFileExists(t, filepath.Join(root, ".gitignore"))
	assert.NotContains(t, out, "Created")
}
