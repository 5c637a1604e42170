package config

import (
	"fmt"
	"maps"
	"strings"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

// Cloud.gov defaults used when no value is given.
const (
	DefaultCloudGovOrganization    = "ORGANIZATION"
	DefaultCloudGovStagingSpace    = "staging"
	DefaultCloudGovProductionSpace = "prod"
)

// CloudGovOptions configures the generated Terraform and deploy workflows.
type CloudGovOptions struct {
	Organization    string
	StagingSpace    string
	ProductionSpace string
}

// DefaultCloudGov returns the cloud.gov defaults.
func DefaultCloudGov() CloudGovOptions {
	return CloudGovOptions{
		Organization:    DefaultCloudGovOrganization,
		StagingSpace:    DefaultCloudGovStagingSpace,
		ProductionSpace: DefaultCloudGovProductionSpace,
	}
}

// Options is the configuration of one assembly run.
type Options struct {
	// AppName is the application identifier. The assembler sets it from the
	// destination; any value supplied by a source is overwritten.
	AppName string

	// USWDS enables the front-end tooling steps.
	USWDS bool

	// CircleCI writes .circleci/config.yml.
	CircleCI bool

	// GitHubActions mirrors the workflow templates into .github/.
	GitHubActions bool

	// CloudGovTerraform writes the terraform/ tree.
	CloudGovTerraform bool

	CloudGov CloudGovOptions

	// Extra holds pass-through template variables.
	Extra map[string]any
}

// Clone returns a deep copy of o.
func (o *Options) Clone() *Options {
	out := *o
	out.Extra = maps.Clone(o.Extra)
	return &out
}

// TemplateVars flattens o into the variable map every template sees.
// Typed keys win over Extra keys with the same name.
func (o *Options) TemplateVars() map[string]any {
	vars := make(map[string]any, len(o.Extra)+6)
	maps.Copy(vars, o.Extra)

	vars["app_name"] = o.AppName
	vars["uswds"] = o.USWDS
	vars["circleci"] = o.CircleCI
	vars["github_actions"] = o.GitHubActions
	vars["cloud_gov_terraform"] = o.CloudGovTerraform
	vars["cloud_gov"] = map[string]any{
		"organization":     o.CloudGov.Organization,
		"staging_space":    o.CloudGov.StagingSpace,
		"production_space": o.CloudGov.ProductionSpace,
	}

	return vars
}

// ParseVars parses repeated key=value pairs into extra template variables.
// "true" and "false" become booleans; everything else stays a string.
func ParseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("invalid template variable %q", pair),
				"--var",
				"use key=value",
			)
		}
		switch value {
		case "true":
			vars[key] = true
		case "false":
			vars[key] = false
		default:
			vars[key] = value
		}
	}
	return vars, nil
}
