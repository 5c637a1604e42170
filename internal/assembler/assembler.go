// Package assembler builds a Django project tree in a destination directory
// by running a fixed sequence of idempotent steps.
package assembler

import (
	"context"
	"maps"
	"net/http"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/opmodel/djangogen/internal/config"
	"github.com/opmodel/djangogen/internal/destination"
	"github.com/opmodel/djangogen/internal/exec"
	"github.com/opmodel/djangogen/internal/fetch"
	"github.com/opmodel/djangogen/internal/fsys"
	"github.com/opmodel/djangogen/internal/output"
	"github.com/opmodel/djangogen/internal/templates"
)

// Deps are the collaborators an Assembler composes. Zero values get
// defaults: built-in settings and templates, the OS filesystem, os/exec
// and an HTTP client with fetch.DefaultTimeout.
type Deps struct {
	Settings   *config.Settings
	Templates  *templates.Set
	Fs         afero.Fs
	Runner     exec.Runner
	HTTPClient *http.Client

	// Progress is called once per step with an output.Status* value.
	Progress func(step, status string)
}

// Step is one named unit of the assembly sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error

	// Enabled gates the step on the run options. Nil means always.
	Enabled func(opts *config.Options) bool
}

// Assembler owns one run against one destination. It is not safe for
// concurrent use, and two assemblers must not target the same destination
// at the same time.
type Assembler struct {
	dest     *destination.Destination
	opts     *config.Options
	settings *config.Settings

	renderer *templates.Renderer
	writer   *fsys.Writer
	fetcher  *fetch.Fetcher
	runner   exec.Runner
	progress func(step, status string)

	current string
	written map[string]string
}

// New binds opts to dest. The options are copied and their AppName is set
// to the destination's identifier; nothing else changes them afterwards.
func New(dest *destination.Destination, opts *config.Options, deps Deps) *Assembler {
	if opts == nil {
		opts = &config.Options{CloudGov: config.DefaultCloudGov()}
	}
	bound := opts.Clone()
	bound.AppName = dest.AppName

	settings := deps.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	set := deps.Templates
	if set == nil {
		set = templates.Embedded()
	}
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	runner := deps.Runner
	if runner == nil {
		runner = exec.NewRealRunner(nil)
	}

	renderer := templates.NewRenderer(set, bound.TemplateVars())

	return &Assembler{
		dest:     dest,
		opts:     bound,
		settings: settings.WithDefaults(),
		renderer: renderer,
		writer:   fsys.NewWriter(fs, dest.Path, renderer),
		fetcher:  fetch.New(deps.HTTPClient, fs, dest.Path),
		runner:   runner,
		progress: deps.Progress,
		written:  make(map[string]string),
	}
}

// Destination returns the destination the assembler writes to.
func (a *Assembler) Destination() *destination.Destination {
	return a.dest
}

// Options returns the bound run options.
func (a *Assembler) Options() *config.Options {
	return a.opts
}

// Run executes Steps in order and stops at the first failure, which is
// returned as a *StepError. Disabled steps are reported as skipped.
// Cancellation is checked between steps; an external command already
// running is stopped through its context.
func (a *Assembler) Run(ctx context.Context) error {
	output.Debug("assembling project",
		"destination", a.dest.Path,
		"app", a.dest.AppName,
		"uswds", a.opts.USWDS,
		"circleci", a.opts.CircleCI,
		"github_actions", a.opts.GitHubActions,
		"cloud_gov_terraform", a.opts.CloudGovTerraform,
	)

	for _, step := range a.Steps() {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name, Err: err}
		}

		log := output.StepLogger(step.Name)
		if step.Enabled != nil && !step.Enabled(a.opts) {
			log.Debug("skipped, option disabled")
			a.report(step.Name, output.StatusSkipped)
			continue
		}

		log.Debug("starting")
		a.current = step.Name
		err := step.Run(ctx)
		a.current = ""
		if err != nil {
			a.report(step.Name, output.StatusFailed)
			return &StepError{Step: step.Name, Err: err}
		}
		a.report(step.Name, output.StatusDone)
	}

	return nil
}

// Written maps the destination-relative, slash-separated path of every file
// this assembler wrote or had a tool create to the step that produced it.
func (a *Assembler) Written() map[string]string {
	return maps.Clone(a.written)
}

// WrittenPaths returns the keys of Written, sorted.
func (a *Assembler) WrittenPaths() []string {
	return slices.Sorted(maps.Keys(a.written))
}

func (a *Assembler) report(step, status string) {
	if a.progress != nil {
		a.progress(step, status)
	}
}

func (a *Assembler) record(paths ...string) {
	for _, p := range paths {
		a.written[filepath.ToSlash(filepath.Clean(p))] = a.current
	}
}

func (a *Assembler) recordUnder(dir string, rels []string) {
	for _, r := range rels {
		a.record(path.Join(filepath.ToSlash(dir), r))
	}
}

// run executes argv with dir (relative to the destination) as the working
// directory, behind a spinner on terminals.
func (a *Assembler) run(ctx context.Context, dir string, argv ...string) error {
	wd := a.writer.Abs(dir)
	cmdline := strings.Join(argv, " ")
	output.Debug("running command", "argv", cmdline, "dir", wd)

	return output.RunWithSpinner(ctx, func() error {
		_, err := a.runner.Run(ctx, argv, wd)
		return err
	}, output.WithTitle(cmdline))
}

// appDir is the inner settings-bearing package, <id>/<id>.
func (a *Assembler) appDir() string {
	return filepath.Join(a.dest.AppName, a.dest.AppName)
}

func (a *Assembler) settingsDir() string {
	return filepath.Join(a.appDir(), "settings")
}
