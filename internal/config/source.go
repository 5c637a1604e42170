package config

import (
	"context"
	"strings"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

// Option keys a PromptSource can be told were already supplied.
const (
	KeyAppName                 = "app_name"
	KeyUSWDS                   = "uswds"
	KeyCircleCI                = "circleci"
	KeyGitHubActions           = "github_actions"
	KeyCloudGovTerraform       = "cloud_gov_terraform"
	KeyCloudGovOrganization    = "cloud_gov_organization"
	KeyCloudGovStagingSpace    = "cloud_gov_staging_space"
	KeyCloudGovProductionSpace = "cloud_gov_production_space"
)

// Source produces the options of one assembly run together with the
// requested project name.
type Source interface {
	Options(ctx context.Context) (name string, opts *Options, err error)
}

// StaticSource returns pre-supplied options without interaction.
type StaticSource struct {
	Name string
	Opts Options
}

// Options implements Source.
func (s StaticSource) Options(_ context.Context) (string, *Options, error) {
	if strings.TrimSpace(s.Name) == "" {
		return "", nil, oerrors.NewValidationError("project name is required", "name", "pass a project name argument")
	}
	return s.Name, s.Opts.Clone(), nil
}

// PromptSource asks for every value not already supplied.
type PromptSource struct {
	Prompter *Prompter

	// Name is the project name; asked for when empty.
	Name string

	// Base holds values supplied by flags.
	Base Options

	// Supplied marks the option keys present in Base that must not be asked.
	Supplied map[string]bool
}

// Options implements Source.
func (s PromptSource) Options(ctx context.Context) (string, *Options, error) {
	opts := s.Base.Clone()

	name := strings.TrimSpace(s.Name)
	for name == "" {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		answer, err := s.Prompter.Text("What is the name of your project?", "")
		if err != nil {
			return "", nil, err
		}
		name = strings.TrimSpace(answer)
	}

	questions := []struct {
		key      string
		question string
		target   *bool
	}{
		{KeyUSWDS, "Would you like to install USWDS (requires node to already be installed)?", &opts.USWDS},
		{KeyCircleCI, "Would you like to set up CircleCI for CI/CD?", &opts.CircleCI},
		{KeyGitHubActions, "Would you like to set up GitHub Actions for CI/CD?", &opts.GitHubActions},
		{KeyCloudGovTerraform, "Create Terraform scripts for cloud.gov infrastructure?", &opts.CloudGovTerraform},
	}
	for _, q := range questions {
		if s.Supplied[q.key] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		answer, err := s.Prompter.Confirm(q.question, *q.target)
		if err != nil {
			return "", nil, err
		}
		*q.target = answer
	}

	if opts.CloudGovTerraform {
		texts := []struct {
			key      string
			question string
			target   *string
		}{
			{KeyCloudGovOrganization, "Cloud.gov organization name", &opts.CloudGov.Organization},
			{KeyCloudGovStagingSpace, "Cloud.gov space to use for staging", &opts.CloudGov.StagingSpace},
			{KeyCloudGovProductionSpace, "Cloud.gov space to use for production", &opts.CloudGov.ProductionSpace},
		}
		for _, q := range texts {
			if s.Supplied[q.key] {
				continue
			}
			answer, err := s.Prompter.Text(q.question, *q.target)
			if err != nil {
				return "", nil, err
			}
			*q.target = answer
		}
	}

	return name, opts, nil
}
