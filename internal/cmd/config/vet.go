package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/djangogen/internal/cmdtypes"
	"github.com/opmodel/djangogen/internal/config"
	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the settings file",
		Long: `Validate the djangogen settings file against the built-in CUE schema.

Environment overrides and defaults are applied before validation, so the
result is exactly what "djangogen new" would run with.

The config path is resolved using precedence:
  --config flag > DJANGOGEN_CONFIG env > ~/.djangogen/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c, cfg)
		},
	}
}

func runVet(c *cobra.Command, cfg *cmdtypes.GlobalConfig) error {
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
	if !exists {
		return oerrors.NewExitError(
			oerrors.NewNotFoundError("config file not found", path, "Run 'djangogen config init' to create one."),
			cmdtypes.ExitNotFound,
		)
	}

	output.Debug("validating config", "path", path)

	validator, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}

	if err := validator.ValidateFile(path); err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			fmt.Fprintln(c.ErrOrStderr(), "Error: config validation failed")
			fmt.Fprintf(c.ErrOrStderr(), "  File: %s\n\n", path)
			for _, e := range validationErrs {
				fmt.Fprintf(c.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
			}
			return &oerrors.ExitError{Err: err, Code: cmdtypes.ExitValidationError, Printed: true}
		}
		return oerrors.NewExitError(
			fmt.Errorf("%w: %w", oerrors.ErrValidation, err),
			cmdtypes.ExitValidationError,
		)
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file is valid: %s\n", path)
	return nil
}
