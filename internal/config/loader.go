package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for djangogen configuration.
const envPrefix = "DJANGOGEN"

// Loader handles loading and merging settings from the config file,
// the environment and built-in defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new settings loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key known to viper so Unmarshal sees env overrides.
	defaults := DefaultSettings()
	v.SetDefault("tools.django_admin", defaults.Tools.DjangoAdmin)
	v.SetDefault("tools.git", defaults.Tools.Git)
	v.SetDefault("tools.npm", defaults.Tools.NPM)
	v.SetDefault("tools.build", defaults.Tools.Build)
	v.SetDefault("remote.policy_base_url", defaults.Remote.PolicyBaseURL)
	v.SetDefault("remote.gitignore_url", defaults.Remote.GitignoreURL)
	v.SetDefault("git.default_branch", defaults.Git.DefaultBranch)

	_ = v.BindEnv("templates.dir", "DJANGOGEN_TEMPLATES_DIR")
	_ = v.BindEnv("log.timestamps", "DJANGOGEN_LOG_TIMESTAMPS")

	return &Loader{v: v}
}

// Load loads settings from the given file path.
// If configFile is empty, the default config file path is used.
// A missing file is not an error. Environment variables take precedence
// over file values; defaults fill whatever is left.
func (l *Loader) Load(configFile string) (*Settings, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if s.Templates.Dir != "" {
		dir, err := ExpandPath(s.Templates.Dir)
		if err != nil {
			return nil, fmt.Errorf("expanding templates dir: %w", err)
		}
		s.Templates.Dir = dir
	}

	return s.WithDefaults(), nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(expandedPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
