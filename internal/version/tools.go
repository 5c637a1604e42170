package version

import (
	"context"
	"fmt"
	osexec "os/exec"
	"regexp"
	"strings"

	"github.com/opmodel/djangogen/internal/config"
	"github.com/opmodel/djangogen/internal/exec"
)

// versionRegex matches version strings like "5.0.1", "v2.43.0" or "10.2.4-rc.1".
var versionRegex = regexp.MustCompile(`v?\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9.]+)?`)

// ToolInfo describes one external tool the generator invokes.
type ToolInfo struct {
	// Name is the settings key of the tool.
	Name string `json:"name"`

	// Argv is the configured command.
	Argv []string `json:"argv"`

	// Path is where argv[0] resolved on PATH.
	Path string `json:"path,omitempty"`

	// Version is the reported version.
	Version string `json:"version,omitempty"`

	// Found indicates argv[0] was found on PATH.
	Found bool `json:"found"`

	// Message explains a missing tool or an unreadable version.
	Message string `json:"message,omitempty"`
}

// String returns a one-line summary.
func (t ToolInfo) String() string {
	cmd := strings.Join(t.Argv, " ")
	switch {
	case !t.Found:
		return fmt.Sprintf("%-14s %s: not found", t.Name, cmd)
	case t.Version == "":
		return fmt.Sprintf("%-14s %s (%s): %s", t.Name, cmd, t.Path, t.Message)
	default:
		return fmt.Sprintf("%-14s %s %s (%s)", t.Name, cmd, t.Version, t.Path)
	}
}

// DetectTools checks every tool configured in settings.
func DetectTools(ctx context.Context, runner exec.Runner, settings *config.Settings) []ToolInfo {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	s := settings.WithDefaults()
	return []ToolInfo{
		DetectTool(ctx, runner, "django_admin", []string{s.Tools.DjangoAdmin}),
		DetectTool(ctx, runner, "git", []string{s.Tools.Git}),
		DetectTool(ctx, runner, "npm", []string{s.Tools.NPM}),
		DetectTool(ctx, runner, "build", s.Tools.Build),
	}
}

// DetectTool looks argv[0] up on PATH and runs argv with --version.
func DetectTool(ctx context.Context, runner exec.Runner, name string, argv []string) ToolInfo {
	info := ToolInfo{Name: name, Argv: argv}
	if len(argv) == 0 || argv[0] == "" {
		info.Message = "no command configured"
		return info
	}

	path, err := osexec.LookPath(argv[0])
	if err != nil {
		info.Message = argv[0] + " not found in PATH"
		return info
	}
	info.Path = path
	info.Found = true

	versionArgv := append(append([]string(nil), argv...), "--version")
	res, err := runner.Run(ctx, versionArgv, "")
	if err != nil {
		info.Message = "failed to get version: " + err.Error()
		return info
	}

	v, err := extractVersion(res.Output)
	if err != nil {
		info.Message = err.Error()
		return info
	}
	info.Version = v
	return info
}

// extractVersion finds the first version number in a tool's --version
// output, for example "git version 2.43.0" or "CLI version: 2.3.0".
func extractVersion(output string) (string, error) {
	match := versionRegex.FindString(output)
	if match == "" {
		return "", &versionParseError{output: output}
	}
	return strings.TrimPrefix(match, "v"), nil
}

// versionParseError indicates failure to parse a tool's version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse version from output: " + strings.TrimSpace(e.output)
}
