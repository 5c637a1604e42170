package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opmodel/djangogen/internal/cmdtypes"
	"github.com/opmodel/djangogen/internal/config"
	oerrors "github.com/opmodel/djangogen/internal/errors"
)

const initHeader = `# djangogen settings
# Environment variables override these values: DJANGOGEN_TOOLS_GIT,
# DJANGOGEN_REMOTE_GITIGNORE_URL, DJANGOGEN_TEMPLATES_DIR, ...

`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a settings file with default values",
		Long: `Create a djangogen settings file with default values.

The file is created at ~/.djangogen/config.yaml by default.
Use --config or DJANGOGEN_CONFIG to choose a different location.

Examples:
  # Write the default settings
  djangogen config init

  # Overwrite an existing file
  djangogen config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInit(c, cfg, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return c
}

func runInit(c *cobra.Command, cfg *cmdtypes.GlobalConfig, force bool) error {
	path, err := configFile(cfg)
	if err != nil {
		return oerrors.NewExitError(
			oerrors.Wrap(oerrors.ErrNotFound, "could not determine config file path"),
			cmdtypes.ExitNotFound,
		)
	}

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return oerrors.NewExitError(&oerrors.DetailError{
			Type:     "validation failed",
			Message:  "config file already exists",
			Location: path,
			Hint:     "Use --force to overwrite it.",
			Cause:    oerrors.ErrValidation,
		}, cmdtypes.ExitValidationError)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return oerrors.NewExitError(
			fmt.Errorf("creating config directory: %w: %w", oerrors.ErrPermission, err),
			cmdtypes.ExitPermissionDenied,
		)
	}

	data, err := yaml.Marshal(config.DefaultSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(initHeader), data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return oerrors.NewExitError(
			fmt.Errorf("writing config file: %w: %w", oerrors.ErrPermission, err),
			cmdtypes.ExitPermissionDenied,
		)
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file created: %s\n", path)
	return nil
}
