// Package config provides generator settings loading and the option sources
// that feed a project assembly run.
package config

// Default settings values.
const (
	DefaultDjangoAdmin   = "django-admin"
	DefaultGit           = "git"
	DefaultNPM           = "npm"
	DefaultPolicyBaseURL = "https://raw.githubusercontent.com/18F/open-source-policy/master"
	DefaultGitignoreURL  = "https://raw.githubusercontent.com/github/gitignore/main/Python.gitignore"
	DefaultBranch        = "main"
)

// DefaultBuild is the front-end build tool invocation prefix.
var DefaultBuild = []string{"npx", "gulp"}

// ToolsSettings names the external binaries the generator invokes.
type ToolsSettings struct {
	// DjangoAdmin is the project skeleton command.
	// Env: DJANGOGEN_TOOLS_DJANGO_ADMIN, Default: django-admin
	DjangoAdmin string `mapstructure:"django_admin" json:"django_admin" yaml:"django_admin"`

	// Git is the version control binary.
	// Env: DJANGOGEN_TOOLS_GIT, Default: git
	Git string `mapstructure:"git" json:"git" yaml:"git"`

	// NPM is the package installer.
	// Env: DJANGOGEN_TOOLS_NPM, Default: npm
	NPM string `mapstructure:"npm" json:"npm" yaml:"npm"`

	// Build is the argv prefix of the build tool; "init" and "compile" are appended.
	// Env: DJANGOGEN_TOOLS_BUILD (comma separated), Default: [npx, gulp]
	Build []string `mapstructure:"build" json:"build" yaml:"build"`
}

// RemoteSettings holds the URLs of downloaded, non-bundled files.
type RemoteSettings struct {
	// PolicyBaseURL is the directory URL holding CONTRIBUTING.md and LICENSE.md.
	PolicyBaseURL string `mapstructure:"policy_base_url" json:"policy_base_url" yaml:"policy_base_url"`

	// GitignoreURL is the baseline .gitignore.
	GitignoreURL string `mapstructure:"gitignore_url" json:"gitignore_url" yaml:"gitignore_url"`
}

// GitSettings configures repository initialization.
type GitSettings struct {
	// DefaultBranch is the branch name the new repository is renamed to.
	DefaultBranch string `mapstructure:"default_branch" json:"default_branch" yaml:"default_branch"`
}

// TemplatesSettings selects the template root.
type TemplatesSettings struct {
	// Dir replaces the embedded template set with an on-disk directory.
	Dir string `mapstructure:"dir" json:"dir,omitempty" yaml:"dir,omitempty"`
}

// LogSettings contains logging-related settings.
type LogSettings struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Settings is the generator configuration loaded from
// ~/.djangogen/config.yaml and DJANGOGEN_* environment variables.
type Settings struct {
	Tools     ToolsSettings     `mapstructure:"tools" json:"tools" yaml:"tools"`
	Remote    RemoteSettings    `mapstructure:"remote" json:"remote" yaml:"remote"`
	Git       GitSettings       `mapstructure:"git" json:"git" yaml:"git"`
	Templates TemplatesSettings `mapstructure:"templates" json:"templates" yaml:"templates,omitempty"`
	Log       LogSettings       `mapstructure:"log" json:"log" yaml:"log,omitempty"`
}

// DefaultSettings returns Settings with every default populated.
// Used by `djangogen config init` to generate the initial file.
func DefaultSettings() *Settings {
	return (&Settings{}).WithDefaults()
}

// WithDefaults returns a copy of s with empty fields set to their defaults.
func (s *Settings) WithDefaults() *Settings {
	out := *s

	if out.Tools.DjangoAdmin == "" {
		out.Tools.DjangoAdmin = DefaultDjangoAdmin
	}
	if out.Tools.Git == "" {
		out.Tools.Git = DefaultGit
	}
	if out.Tools.NPM == "" {
		out.Tools.NPM = DefaultNPM
	}
	if len(out.Tools.Build) == 0 {
		out.Tools.Build = append([]string(nil), DefaultBuild...)
	} else {
		out.Tools.Build = append([]string(nil), out.Tools.Build...)
	}
	if out.Remote.PolicyBaseURL == "" {
		out.Remote.PolicyBaseURL = DefaultPolicyBaseURL
	}
	if out.Remote.GitignoreURL == "" {
		out.Remote.GitignoreURL = DefaultGitignoreURL
	}
	if out.Git.DefaultBranch == "" {
		out.Git.DefaultBranch = DefaultBranch
	}

	return &out
}
