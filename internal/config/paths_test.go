package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err, "should get home directory")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no tilde", input: "/absolute/path", expected: "/absolute/path"},
		{name: "relative path without tilde", input: "relative/path", expected: "relative/path"},
		{name: "tilde only", input: "~", expected: homeDir},
		{name: "tilde with slash", input: "~/.djangogen/config.yaml", expected: filepath.Join(homeDir, ".djangogen", "config.yaml")},
		{name: "tilde username pattern (not expanded)", input: "~username/file", expected: "~username/file"},
		{name: "tilde in middle (not expanded)", input: "/path/~/file", expected: "/path/~/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	paths, err := DefaultPaths()
	require.NoError(t, err)

	assert.Equal(t, ".djangogen", filepath.Base(paths.HomeDir))
	assert.Equal(t, filepath.Join(paths.HomeDir, "config.yaml"), paths.ConfigFile)
}

func TestGetConfigFile_EnvOverride(t *testing.T) {
	t.Setenv("DJANGOGEN_CONFIG", "/tmp/custom.yaml")

	path, err := GetConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)
}
