// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/config).
package cmdtypes

import (
	"github.com/opmodel/djangogen/internal/config"
	oerrors "github.com/opmodel/djangogen/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Settings is the loaded generator configuration, defaults applied.
	Settings *config.Settings

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// SettingsErr is the error loading the settings file, if any. Settings
	// then holds the defaults.
	SettingsErr error

	// TemplatesDir is the resolved template root; empty means built-in.
	TemplatesDir string

	Verbose bool
}

// Exit codes: aliases to internal/errors constants.
const (
	ExitSuccess           = oerrors.ExitSuccess
	ExitGeneralError      = oerrors.ExitGeneralError
	ExitValidationError   = oerrors.ExitValidationError
	ExitConnectivityError = oerrors.ExitConnectivityError
	ExitPermissionDenied  = oerrors.ExitPermissionDenied
	ExitNotFound          = oerrors.ExitNotFound
	ExitCommandFailed     = oerrors.ExitCommandFailed
	ExitPatchNotApplied   = oerrors.ExitPatchNotApplied
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
