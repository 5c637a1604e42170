package assembler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/opmodel/djangogen/internal/config"
	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/output"
	"github.com/opmodel/djangogen/internal/patch"
)

// Step names, in run order.
const (
	StepEnsureDestination      = "ensure_destination"
	StepCreateReadme           = "create_readme"
	StepGetPolicyFiles         = "get_policy_files"
	StepInitializeGit          = "initialize_git"
	StepGetGitignore           = "get_gitignore"
	StepSetUpPrecommitHook     = "set_up_precommit_hook"
	StepCreateDjangoApp        = "create_django_app"
	StepCreatePipfiles         = "create_pipfiles"
	StepCreateAppFiles         = "create_app_files"
	StepMakeSettingsDirectory  = "make_settings_directory"
	StepMakeProdSettings       = "make_prod_settings"
	StepMakeDevSettings        = "make_dev_settings"
	StepCreateDockerFiles      = "create_docker_files"
	StepCreateBanditConfig     = "create_bandit_config"
	StepSetUpUSWDS             = "set_up_uswds"
	StepSetUpCircleCI          = "set_up_circleci"
	StepSetUpGitHubActions     = "set_up_github_actions"
	StepSetUpCloudGovTerraform = "set_up_cloud_gov_terraform"
)

// policyFiles are fetched from remote.policy_base_url.
var policyFiles = []string{"CONTRIBUTING.md", "LICENSE.md"}

// gitignoreExtras are appended to the downloaded .gitignore.
var gitignoreExtras = []string{"node_modules/", ".env"}

// Steps returns the fixed step sequence.
func (a *Assembler) Steps() []Step {
	return []Step{
		{Name: StepEnsureDestination, Run: a.EnsureDestination},
		{Name: StepCreateReadme, Run: a.CreateReadme},
		{Name: StepGetPolicyFiles, Run: a.GetPolicyFiles},
		{Name: StepInitializeGit, Run: a.InitializeGit},
		{Name: StepGetGitignore, Run: a.GetGitignore},
		{Name: StepSetUpPrecommitHook, Run: a.SetUpPrecommitHook},
		{Name: StepCreateDjangoApp, Run: a.CreateDjangoApp},
		{Name: StepCreatePipfiles, Run: a.CreatePipfiles},
		{Name: StepCreateAppFiles, Run: a.CreateAppFiles},
		{Name: StepMakeSettingsDirectory, Run: a.MakeSettingsDirectory},
		{Name: StepMakeProdSettings, Run: a.MakeProdSettings},
		{Name: StepMakeDevSettings, Run: a.MakeDevSettings},
		{Name: StepCreateDockerFiles, Run: a.CreateDockerFiles},
		{Name: StepCreateBanditConfig, Run: a.CreateBanditConfig},
		{
			Name:    StepSetUpUSWDS,
			Run:     a.SetUpUSWDS,
			Enabled: func(o *config.Options) bool { return o.USWDS },
		},
		{
			Name:    StepSetUpCircleCI,
			Run:     a.SetUpCircleCI,
			Enabled: func(o *config.Options) bool { return o.CircleCI },
		},
		{
			Name:    StepSetUpGitHubActions,
			Run:     a.SetUpGitHubActions,
			Enabled: func(o *config.Options) bool { return o.GitHubActions },
		},
		{
			Name:    StepSetUpCloudGovTerraform,
			Run:     a.SetUpCloudGovTerraform,
			Enabled: func(o *config.Options) bool { return o.CloudGovTerraform },
		},
	}
}

// EnsureDestination creates the destination directory if needed.
func (a *Assembler) EnsureDestination(_ context.Context) error {
	if err := a.writer.EnsureDir(a.dest.Path); err != nil {
		return oerrors.NewInvalidDestinationError(a.dest.Path, err)
	}
	return nil
}

// CreateReadme renders README.md.
func (a *Assembler) CreateReadme(_ context.Context) error {
	return a.renderTo("README.md.tmpl", "README.md")
}

// GetPolicyFiles downloads the contributing guide and license.
func (a *Assembler) GetPolicyFiles(ctx context.Context) error {
	base := strings.TrimSuffix(a.settings.Remote.PolicyBaseURL, "/")
	for _, name := range policyFiles {
		if err := a.fetcher.Download(ctx, base+"/"+name, name); err != nil {
			return err
		}
		a.record(name)
	}
	return nil
}

// InitializeGit runs git init when the destination is not a repository yet,
// then renames the current branch to git.default_branch unless HEAD already
// points at it.
func (a *Assembler) InitializeGit(ctx context.Context) error {
	gitBin := a.settings.Tools.Git
	branch := a.settings.Git.DefaultBranch
	log := output.StepLogger(StepInitializeGit)

	repo, err := git.PlainOpen(a.dest.Path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if err := a.run(ctx, "", gitBin, "init", "."); err != nil {
			return err
		}
		repo, err = git.PlainOpen(a.dest.Path)
	} else if err == nil {
		log.Debug("repository exists", "path", a.dest.Path)
	}
	if err != nil {
		return fmt.Errorf("opening repository at %s: %w", a.dest.Path, err)
	}

	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("reading HEAD of %s: %w", a.dest.Path, err)
	}
	if head.Type() == plumbing.SymbolicReference && head.Target() == plumbing.NewBranchReferenceName(branch) {
		log.Debug("branch already set", "branch", branch)
		return nil
	}

	return a.run(ctx, "", gitBin, "branch", "-M", branch)
}

// GetGitignore downloads the baseline .gitignore and appends the entries
// the generated project needs.
func (a *Assembler) GetGitignore(ctx context.Context) error {
	if err := a.fetcher.Download(ctx, a.settings.Remote.GitignoreURL, ".gitignore"); err != nil {
		return err
	}
	if _, err := a.writer.AppendLines(".gitignore", gitignoreExtras...); err != nil {
		return err
	}
	a.record(".gitignore")
	return nil
}

// SetUpPrecommitHook installs the git pre-commit hook and the flake8
// configuration it runs with.
func (a *Assembler) SetUpPrecommitHook(_ context.Context) error {
	hooks := filepath.Join(".git", "hooks")
	if err := a.writer.EnsureDir(hooks); err != nil {
		return err
	}

	hook, err := a.renderer.Render("githooks/pre-commit.tmpl")
	if err != nil {
		return err
	}
	if err := a.writer.WriteExecutable(filepath.Join(hooks, "pre-commit"), hook); err != nil {
		return err
	}
	a.record(filepath.Join(hooks, "pre-commit"))

	return a.copyTo("flake8", ".flake8")
}

// CreateDjangoApp runs django-admin startproject unless the project exists.
// manage.py marks a previous run. A project directory without it is
// regenerated in place. A marker without the inner package fails with
// ErrInvalidDestination.
func (a *Assembler) CreateDjangoApp(ctx context.Context) error {
	id := a.dest.AppName
	admin := a.settings.Tools.DjangoAdmin
	marker := filepath.Join(id, "manage.py")

	switch {
	case !a.writer.IsDir(id):
		if err := a.run(ctx, "", admin, "startproject", id); err != nil {
			return err
		}
	case !a.writer.Exists(marker):
		if err := a.run(ctx, "", admin, "startproject", id, id); err != nil {
			return err
		}
	case !a.writer.IsDir(a.appDir()):
		return oerrors.NewInvalidDestinationError(
			a.writer.Abs(a.appDir()),
			fmt.Errorf("%s exists but the project package %s is missing", marker, a.appDir()),
		)
	default:
		output.StepLogger(StepCreateDjangoApp).Debug("project already created", "marker", marker)
		return nil
	}

	a.record(marker)
	return nil
}

// CreatePipfiles writes Pipfile and Pipfile.lock.
func (a *Assembler) CreatePipfiles(_ context.Context) error {
	if err := a.renderTo("Pipfile.tmpl", "Pipfile"); err != nil {
		return err
	}
	return a.renderTo("Pipfile.lock.tmpl", "Pipfile.lock")
}

// CreateAppFiles writes the URL configuration, page templates, the
// integration test stub, and the logs and static directories.
func (a *Assembler) CreateAppFiles(_ context.Context) error {
	app := a.appDir()

	if err := a.renderTo("django/urls.py.tmpl", filepath.Join(app, "urls.py")); err != nil {
		return err
	}

	pages := filepath.Join(app, "templates")
	written, err := a.writer.CopyTemplatedDir("django/templates", pages)
	a.recordUnder(pages, written)
	if err != nil {
		return err
	}

	tests := filepath.Join(app, "tests")
	if err := a.writer.EnsureDir(tests); err != nil {
		return err
	}
	if err := a.touch(filepath.Join(tests, "__init__.py")); err != nil {
		return err
	}
	if err := a.renderTo("django/tests/test_integration.py.tmpl", filepath.Join(tests, "test_integration.py")); err != nil {
		return err
	}

	for _, dir := range []string{"logs", "static"} {
		if err := a.writer.EnsureDir(filepath.Join(app, dir)); err != nil {
			return err
		}
		if err := a.touch(filepath.Join(app, dir, ".gitkeep")); err != nil {
			return err
		}
	}
	return nil
}

// MakeSettingsDirectory turns the generated settings.py into a settings
// package with base.py, patched to drop SECRET_KEY and to load templates
// from the project's templates directory. Safe to run repeatedly.
func (a *Assembler) MakeSettingsDirectory(_ context.Context) error {
	dir := a.settingsDir()
	if err := a.writer.EnsureDir(dir); err != nil {
		return err
	}
	if err := a.touch(filepath.Join(dir, "__init__.py")); err != nil {
		return err
	}

	original := filepath.Join(a.appDir(), "settings.py")
	base := filepath.Join(dir, "base.py")

	moved, err := a.writer.Move(original, base)
	if err != nil {
		return err
	}
	if !a.writer.Exists(base) {
		return oerrors.NewNotFoundError(
			"no settings module to convert",
			a.writer.Abs(original),
			"Re-run after django-admin startproject has produced settings.py.",
		)
	}
	if moved {
		output.StepLogger(StepMakeSettingsDirectory).Debug("moved settings module", "from", original, "to", base)
	}

	for _, rule := range []patch.Rule{patch.StripSecretKey(), patch.TemplateDirs("templates")} {
		n, err := patch.File(a.writer.Fs(), a.writer.Abs(base), rule)
		if err != nil {
			return err
		}
		output.StepLogger(StepMakeSettingsDirectory).Debug("patched", "rule", rule.Name, "matches", n)
	}
	a.record(base)

	return a.copyTo("settings/env.py", filepath.Join(dir, "env.py"))
}

// MakeProdSettings writes settings/prod.py, creating the settings package
// first.
func (a *Assembler) MakeProdSettings(ctx context.Context) error {
	if err := a.MakeSettingsDirectory(ctx); err != nil {
		return err
	}
	return a.renderTo("settings/prod.py.tmpl", filepath.Join(a.settingsDir(), "prod.py"))
}

// MakeDevSettings writes settings/dev.py, creating the settings package
// first.
func (a *Assembler) MakeDevSettings(ctx context.Context) error {
	if err := a.MakeSettingsDirectory(ctx); err != nil {
		return err
	}
	return a.renderTo("settings/dev.py.tmpl", filepath.Join(a.settingsDir(), "dev.py"))
}

// CreateDockerFiles writes the Dockerfile, the compose file and the
// container entrypoint next to manage.py.
func (a *Assembler) CreateDockerFiles(_ context.Context) error {
	if err := a.renderTo("Dockerfile.tmpl", "Dockerfile"); err != nil {
		return err
	}
	if err := a.renderTo("docker-compose.yml.tmpl", "docker-compose.yml"); err != nil {
		return err
	}

	entrypoint, err := a.renderer.Render("docker_entrypoint.py.tmpl")
	if err != nil {
		return err
	}
	target := filepath.Join(a.dest.AppName, "docker_entrypoint.py")
	if err := a.writer.WriteExecutable(target, entrypoint); err != nil {
		return err
	}
	a.record(target)
	return nil
}

// CreateBanditConfig writes .bandit.
func (a *Assembler) CreateBanditConfig(_ context.Context) error {
	return a.copyTo("bandit.yaml", ".bandit")
}

// SetUpUSWDS writes the npm manifests, installs them, writes the gulp
// pipeline and runs its init and compile tasks.
func (a *Assembler) SetUpUSWDS(ctx context.Context) error {
	if err := a.renderTo("package.json.tmpl", "package.json"); err != nil {
		return err
	}
	if err := a.renderTo("package-lock.json.tmpl", "package-lock.json"); err != nil {
		return err
	}
	if err := a.run(ctx, "", a.settings.Tools.NPM, "install"); err != nil {
		return err
	}
	if err := a.renderTo("gulpfile.js.tmpl", "gulpfile.js"); err != nil {
		return err
	}

	for _, task := range []string{"init", "compile"} {
		argv := append(append([]string(nil), a.settings.Tools.Build...), task)
		if err := a.run(ctx, "", argv...); err != nil {
			return err
		}
	}
	for _, asset := range []string{
		filepath.Join(a.appDir(), "static", "css", "styles.css"),
		filepath.Join(a.appDir(), "static", "js", "uswds.min.js"),
	} {
		if a.writer.Exists(asset) {
			a.record(asset)
		} else {
			output.Warn("build did not produce expected asset", "path", asset)
		}
	}
	return nil
}

// SetUpCircleCI writes .circleci/config.yml.
func (a *Assembler) SetUpCircleCI(_ context.Context) error {
	if err := a.writer.EnsureDir(".circleci"); err != nil {
		return err
	}
	return a.renderTo("circleci/config.yml.tmpl", filepath.Join(".circleci", "config.yml"))
}

// SetUpGitHubActions mirrors the workflow and composite action templates
// into .github/.
func (a *Assembler) SetUpGitHubActions(_ context.Context) error {
	return a.mirror("github", ".github")
}

// SetUpCloudGovTerraform mirrors the Terraform templates into terraform/.
func (a *Assembler) SetUpCloudGovTerraform(_ context.Context) error {
	return a.mirror("terraform", "terraform")
}

func (a *Assembler) renderTo(src, dst string) error {
	if err := a.writer.RenderFile(src, dst); err != nil {
		return err
	}
	a.record(dst)
	return nil
}

func (a *Assembler) copyTo(src, dst string) error {
	if err := a.writer.CopyFile(src, dst); err != nil {
		return err
	}
	a.record(dst)
	return nil
}

func (a *Assembler) touch(p string) error {
	if err := a.writer.Touch(p); err != nil {
		return err
	}
	a.record(p)
	return nil
}

func (a *Assembler) mirror(src, dst string) error {
	written, err := a.writer.CopyTemplatedDir(src, dst)
	a.recordUnder(dst, written)
	return err
}
