package templates

import "strings"

// Group is a top-level entry of the template set and the step that uses it.
type Group struct {
	// Name is the first path segment (directory or file output name).
	Name string

	// Description says what the group produces in the generated project.
	Description string

	// Optional is set for groups only written behind an option flag.
	Optional string
}

// groups is the registry of known top-level template entries.
var groups = map[string]Group{
	"README.md":          {Name: "README.md", Description: "project README"},
	"githooks":           {Name: "githooks", Description: "git pre-commit hook"},
	"flake8":             {Name: "flake8", Description: "lint configuration (.flake8)"},
	"Pipfile":            {Name: "Pipfile", Description: "Python dependency manifest"},
	"Pipfile.lock":       {Name: "Pipfile.lock", Description: "Python dependency lock"},
	"django":             {Name: "django", Description: "URL routing, page templates, tests"},
	"settings":           {Name: "settings", Description: "settings package modules"},
	"Dockerfile":         {Name: "Dockerfile", Description: "container image"},
	"docker-compose.yml": {Name: "docker-compose.yml", Description: "local container stack"},
	"docker_entrypoint.py": {
		Name:        "docker_entrypoint.py",
		Description: "container entrypoint",
	},
	"bandit.yaml":       {Name: "bandit.yaml", Description: "security scanner configuration (.bandit)"},
	"package.json":      {Name: "package.json", Description: "front-end manifest", Optional: "uswds"},
	"package-lock.json": {Name: "package-lock.json", Description: "front-end lock", Optional: "uswds"},
	"gulpfile.js":       {Name: "gulpfile.js", Description: "USWDS build pipeline", Optional: "uswds"},
	"circleci":          {Name: "circleci", Description: "CircleCI configuration", Optional: "circleci"},
	"github":            {Name: "github", Description: "GitHub Actions workflows", Optional: "github_actions"},
	"terraform":         {Name: "terraform", Description: "cloud.gov infrastructure", Optional: "cloud_gov_terraform"},
}

// Lookup returns the group a template name belongs to.
func Lookup(name string) (Group, bool) {
	first, _, _ := strings.Cut(OutputName(toSlash(name)), "/")
	g, ok := groups[first]
	return g, ok
}

// Describe returns a one-line note for a template name, or "" when the
// name is not part of a known group.
func Describe(name string) string {
	g, ok := Lookup(name)
	if !ok {
		return ""
	}
	if g.Optional != "" {
		return g.Description + " [" + g.Optional + "]"
	}
	return g.Description
}
