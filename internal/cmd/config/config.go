// Package config provides CLI command implementations for the config command group.
package config

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/djangogen/internal/cmdtypes"
	"github.com/opmodel/djangogen/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Create and validate the djangogen settings file.`,
	}

	c.AddCommand(NewConfigInitCmd(cfg))
	c.AddCommand(NewConfigVetCmd(cfg))

	return c
}

// configFile returns the resolved settings file path with ~ expanded.
func configFile(cfg *cmdtypes.GlobalConfig) (string, error) {
	path := cfg.ConfigPath
	if path == "" {
		var err error
		path, err = config.GetConfigFile()
		if err != nil {
			return "", err
		}
	}
	return config.ExpandPath(path)
}
