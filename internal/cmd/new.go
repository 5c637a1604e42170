package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opmodel/djangogen/internal/assembler"
	"github.com/opmodel/djangogen/internal/cmdtypes"
	"github.com/opmodel/djangogen/internal/config"
	"github.com/opmodel/djangogen/internal/destination"
	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/exec"
	"github.com/opmodel/djangogen/internal/output"
	"github.com/opmodel/djangogen/internal/templates"
)

// newFlags holds the flags of the new command.
type newFlags struct {
	uswds             bool
	circleCI          bool
	githubActions     bool
	cloudGovTerraform bool
	cloudGov          config.CloudGovOptions
	vars              []string
	noInput           bool
}

// flagKeys maps flag names to the option keys a PromptSource skips.
var flagKeys = map[string]string{
	"uswds":                      config.KeyUSWDS,
	"circleci":                   config.KeyCircleCI,
	"github-actions":             config.KeyGitHubActions,
	"cloud-gov-terraform":        config.KeyCloudGovTerraform,
	"cloud-gov-organization":     config.KeyCloudGovOrganization,
	"cloud-gov-staging-space":    config.KeyCloudGovStagingSpace,
	"cloud-gov-production-space": config.KeyCloudGovProductionSpace,
}

// newDeps are the collaborators runNew uses; tests replace them.
type newDeps struct {
	runner   exec.Runner
	workDir  func() (string, error)
	terminal func(io.Reader) bool
}

// NewNewCmd creates the new command.
func NewNewCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return newNewCmd(cfg, newDeps{})
}

func newNewCmd(cfg *cmdtypes.GlobalConfig, deps newDeps) *cobra.Command {
	f := &newFlags{cloudGov: config.DefaultCloudGov()}

	c := &cobra.Command{
		Use:   "new [name]",
		Short: "Generate a new Django project",
		Long: `Generate a new Django project.

A name argument is resolved against the current directory; an absolute path
is used as given. Without an argument the name is asked for and resolved
against the parent of the current directory.

On a terminal, every option not given as a flag is asked for. Use
--no-input to take the flag values as they are.

Examples:
  # Ask for everything
  djangogen new

  # Non-interactive, with USWDS and GitHub Actions
  djangogen new my-site --uswds --github-actions --no-input

  # Pass an extra template variable
  djangogen new my-site --var python_version=3.11 --no-input`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runNew(c, args, cfg, f, deps)
		},
	}

	c.Flags().BoolVar(&f.uswds, "uswds", false, "Install USWDS and build its assets (requires node)")
	c.Flags().BoolVar(&f.circleCI, "circleci", false, "Write a CircleCI configuration")
	c.Flags().BoolVar(&f.githubActions, "github-actions", false, "Write GitHub Actions workflows")
	c.Flags().BoolVar(&f.cloudGovTerraform, "cloud-gov-terraform", false, "Write Terraform for cloud.gov")
	c.Flags().StringVar(&f.cloudGov.Organization, "cloud-gov-organization", config.DefaultCloudGovOrganization,
		"cloud.gov organization name")
	c.Flags().StringVar(&f.cloudGov.StagingSpace, "cloud-gov-staging-space", config.DefaultCloudGovStagingSpace,
		"cloud.gov space for staging")
	c.Flags().StringVar(&f.cloudGov.ProductionSpace, "cloud-gov-production-space", config.DefaultCloudGovProductionSpace,
		"cloud.gov space for production")
	c.Flags().StringArrayVar(&f.vars, "var", nil, "Extra template variable as key=value (can be repeated)")
	c.Flags().BoolVar(&f.noInput, "no-input", false, "Do not prompt; use flag values and defaults")

	return c
}

func runNew(c *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, f *newFlags, deps newDeps) error {
	if cfg.SettingsErr != nil {
		return oerrors.NewExitError(&oerrors.DetailError{
			Type:     "validation failed",
			Message:  cfg.SettingsErr.Error(),
			Location: cfg.ConfigPath,
			Hint:     "Run 'djangogen config vet' for details.",
			Cause:    oerrors.ErrValidation,
		}, cmdtypes.ExitValidationError)
	}

	extra, err := config.ParseVars(f.vars)
	if err != nil {
		return oerrors.NewExitError(err, cmdtypes.ExitValidationError)
	}

	base := config.Options{
		USWDS:             f.uswds,
		CircleCI:          f.circleCI,
		GitHubActions:     f.githubActions,
		CloudGovTerraform: f.cloudGovTerraform,
		CloudGov:          f.cloudGov,
		Extra:             extra,
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	terminal := deps.terminal
	if terminal == nil {
		terminal = isTerminal
	}

	var source config.Source = config.StaticSource{Name: name, Opts: base}
	if !f.noInput && terminal(c.InOrStdin()) {
		supplied := make(map[string]bool)
		for flag, key := range flagKeys {
			if c.Flags().Changed(flag) {
				supplied[key] = true
			}
		}
		source = config.PromptSource{
			Prompter: config.NewPrompter(c.InOrStdin(), c.OutOrStdout()),
			Name:     name,
			Base:     base,
			Supplied: supplied,
		}
	}

	ctx := c.Context()
	name, opts, err := source.Options(ctx)
	if err != nil {
		return oerrors.NewExitError(err, oerrors.ExitCodeFromError(err))
	}

	workDir := deps.workDir
	if workDir == nil {
		workDir = os.Getwd
	}
	anchor, err := workDir()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	if len(args) == 0 {
		anchor = filepath.Dir(anchor)
	}

	dest, err := destination.Resolve(name, anchor)
	if err != nil {
		return oerrors.NewExitError(err, oerrors.ExitCodeFromError(err))
	}

	set, err := templateSet(cfg)
	if err != nil {
		return oerrors.NewExitError(err, oerrors.ExitCodeFromError(err))
	}

	runner := deps.runner
	if runner == nil {
		var log io.Writer
		if cfg.Verbose {
			log = c.ErrOrStderr()
		}
		runner = exec.NewRealRunner(log)
	}

	out := c.OutOrStdout()
	a := assembler.New(dest, opts, assembler.Deps{
		Settings:  cfg.Settings,
		Templates: set,
		Runner:    runner,
		Progress: func(step, status string) {
			fmt.Fprintln(out, output.FormatStepLine(step, status))
		},
	})

	output.Info("generating project", "destination", dest.Path, "app", dest.AppName)

	if err := a.Run(ctx); err != nil {
		output.Error("generation failed", "err", err)
		output.Warn("the partial project was left in place; fix the cause and run the same command again",
			"destination", dest.Path)
		return &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderFileTree(filepath.Base(dest.Path), a.Written()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("Created %s in %s",
		output.StyleNoun.Render(dest.AppName), dest.Path)))
	return nil
}

// templateSet returns the configured template root, or the built-in set.
func templateSet(cfg *cmdtypes.GlobalConfig) (*templates.Set, error) {
	if cfg.TemplatesDir == "" {
		return templates.Embedded(), nil
	}
	return templates.Dir(cfg.TemplatesDir)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
