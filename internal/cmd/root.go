// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/djangogen/internal/cmdtypes"
	configcmd "github.com/opmodel/djangogen/internal/cmd/config"
	"github.com/opmodel/djangogen/internal/config"
	"github.com/opmodel/djangogen/internal/output"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	config       string
	verbose      bool
	timestamps   bool
	templatesDir string
}

// NewRootCmd creates the root command for djangogen.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cfg := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "djangogen",
		Short: "Django project generator",
		Long: `djangogen generates a Django project: README and policy files, a git
repository with a pre-commit hook, the django-admin skeleton with a settings
package, container files, and optionally USWDS, CircleCI, GitHub Actions and
cloud.gov Terraform configuration.

Every step is safe to repeat. When a run fails, fix the cause and run the
same command again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, cfg, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to settings file (env: DJANGOGEN_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVar(&flags.templatesDir, "templates-dir", "",
		"Directory to load templates from instead of the built-in set (env: DJANGOGEN_TEMPLATES_DIR)")

	rootCmd.AddCommand(
		NewNewCmd(cfg),
		NewTemplatesCmd(cfg),
		configcmd.NewConfigCmd(cfg),
		NewVersionCmd(cfg),
	)

	return rootCmd
}

// initializeGlobals sets up logging and loads the settings file into cfg.
func initializeGlobals(c *cobra.Command, cfg *cmdtypes.GlobalConfig, flags *rootFlags) error {
	configPath, err := config.ResolveConfigPath(flags.config)
	if err != nil {
		output.Debug("could not resolve config path", "error", err)
	}

	settings, err := config.NewLoader().Load(configPath.Value)
	if err != nil {
		// Commands that need settings report SettingsErr; config vet
		// still runs and shows the details.
		output.Debug("config load error", "error", err)
		cfg.SettingsErr = err
		settings = config.DefaultSettings()
	}

	cfg.Settings = settings
	cfg.ConfigPath = configPath.Value
	cfg.Verbose = flags.verbose

	// flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if settings.Log.Timestamps != nil {
		logCfg.Timestamps = settings.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	templatesDir := config.Resolve(config.ResolveOptions{
		Key:         "templates.dir",
		FlagValue:   flags.templatesDir,
		EnvVar:      "DJANGOGEN_TEMPLATES_DIR",
		ConfigValue: settings.Templates.Dir,
	})
	if templatesDir.Value != "" {
		dir, err := config.ExpandPath(templatesDir.Value)
		if err != nil {
			return err
		}
		templatesDir.Value = dir
	}
	cfg.TemplatesDir = templatesDir.Value

	if flags.verbose {
		config.LogResolvedValues(configPath, templatesDir)
	}

	return nil
}
