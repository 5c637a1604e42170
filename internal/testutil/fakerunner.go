package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/exec"
)

// SettingsPy is the settings module the fake startproject writes. It uses
// the double-quoted style of current Django releases.
const SettingsPy = `from pathlib import Path

BASE_DIR = Path(__file__).resolve().parent.parent

# SECURITY WARNING: keep the secret key used in production secret!
SECRET_KEY = "django-insecure-0123456789"

DEBUG = True

ALLOWED_HOSTS = []

ROOT_URLCONF = "app.urls"

TEMPLATES = [
    {
        "BACKEND": "django.template.backends.django.DjangoTemplates",
        "DIRS": [],
        "APP_DIRS": True,
    },
]
`

// Call is one recorded Run invocation.
type Call struct {
	Argv []string
	Dir  string
}

// String joins the argument vector with spaces.
func (c Call) String() string {
	return strings.Join(c.Argv, " ")
}

// FakeRunner is an exec.Runner that records calls and reproduces the file
// system effects of the tools the assembler drives, so end-to-end tests do
// not need django-admin, npm, gulp or git on PATH.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Call
	fail  map[string]int
}

var _ exec.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{fail: map[string]int{}}
}

// FailOn makes every command whose joined argv starts with prefix exit
// with code and no side effects.
func (f *FakeRunner) FailOn(prefix string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[prefix] = code
}

// Calls returns the recorded invocations in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the recorded invocations as joined strings.
func (f *FakeRunner) Commands() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Run implements exec.Runner.
func (f *FakeRunner) Run(ctx context.Context, argv []string, dir string) (exec.Result, error) {
	if err := ctx.Err(); err != nil {
		return exec.Result{ExitCode: -1}, &oerrors.CommandError{Argv: argv, Dir: dir, ExitCode: -1, Cause: err}
	}

	call := Call{Argv: append([]string(nil), argv...), Dir: dir}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	code, failing := f.failCode(call.String())
	f.mu.Unlock()

	if failing {
		output := fmt.Sprintf("%s: simulated failure\n", argv[0])
		return exec.Result{Output: output, ExitCode: code}, &oerrors.CommandError{
			Argv:     call.Argv,
			Dir:      dir,
			ExitCode: code,
			Output:   output,
		}
	}

	if err := simulate(argv, dir); err != nil {
		return exec.Result{ExitCode: 1, Output: err.Error()}, &oerrors.CommandError{
			Argv:     call.Argv,
			Dir:      dir,
			ExitCode: 1,
			Output:   err.Error(),
		}
	}
	return exec.Result{}, nil
}

func (f *FakeRunner) failCode(joined string) (int, bool) {
	for prefix, code := range f.fail {
		if strings.HasPrefix(joined, prefix) {
			return code, true
		}
	}
	return 0, false
}

func simulate(argv []string, dir string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	tool := filepath.Base(argv[0])
	args := argv[1:]

	switch {
	case slices.Index(args, "startproject") >= 0:
		return startProject(args[slices.Index(args, "startproject")+1:], dir)
	case tool == "git" && len(args) > 0 && args[0] == "init":
		return gitInit(dir)
	case tool == "git" && len(args) == 3 && args[0] == "branch" && args[1] == "-M":
		return gitRenameBranch(dir, args[2])
	case tool == "npm" && len(args) > 0 && args[0] == "install":
		return os.MkdirAll(filepath.Join(dir, "node_modules", "@uswds", "uswds"), 0o755)
	case slices.Index(argv, "gulp") >= 0 && len(args) > 0:
		return gulp(args[len(args)-1], dir)
	}
	return nil
}

func startProject(args []string, dir string) error {
	if len(args) == 0 {
		return errors.New("startproject: missing project name")
	}
	name := args[0]

	target := filepath.Join(dir, name)
	if len(args) > 1 {
		target = filepath.Join(dir, args[1])
		if _, err := os.Stat(target); err != nil {
			return fmt.Errorf("startproject: destination %s does not exist", target)
		}
	} else if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("startproject: %s already exists", target)
	}

	pkg := filepath.Join(target, name)
	if err := os.MkdirAll(pkg, 0o755); err != nil {
		return err
	}

	settings := strings.Replace(SettingsPy, `"app.urls"`, `"`+name+`.urls"`, 1)
	files := map[string]string{
		filepath.Join(target, "manage.py"): "#!/usr/bin/env python\n",
		filepath.Join(pkg, "__init__.py"):  "",
		filepath.Join(pkg, "settings.py"):  settings,
		filepath.Join(pkg, "urls.py"):      "urlpatterns = []\n",
		filepath.Join(pkg, "wsgi.py"):      "",
		filepath.Join(pkg, "asgi.py"):      "",
	}
	for p, content := range files {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// gitInit starts on master, like git without init.defaultBranch.
func gitInit(dir string) error {
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Master},
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return nil
	}
	return err
}

func gitRenameBranch(dir, branch string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return err
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	return repo.Storer.SetReference(head)
}

var gulpDist = regexp.MustCompile(`uswds\.paths\.dist\.(\w+)\s*=\s*"([^"]+)"`)

// gulp reads the dist paths from gulpfile.js; init copies the USWDS assets
// and compile writes the stylesheet.
func gulp(task, dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, "gulpfile.js"))
	if err != nil {
		return fmt.Errorf("gulp: %w", err)
	}

	dist := map[string]string{}
	for _, m := range gulpDist.FindAllStringSubmatch(string(data), -1) {
		dist[m[1]] = filepath.Join(dir, filepath.FromSlash(m[2]))
	}

	var outputs map[string]string
	switch task {
	case "init":
		outputs = map[string]string{
			"js":    "uswds.min.js",
			"fonts": "public-sans.woff2",
			"img":   "usa-icons.svg",
			"theme": "_uswds-theme.scss",
		}
	case "compile":
		outputs = map[string]string{"css": "styles.css"}
	default:
		return fmt.Errorf("gulp: unknown task %q", task)
	}

	for key, file := range outputs {
		target, ok := dist[key]
		if !ok {
			return fmt.Errorf("gulp: uswds.paths.dist.%s is not set", key)
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(target, file), []byte("/* "+task+" */\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}
