package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

func TestTemplateVars(t *testing.T) {
	opts := &Options{
		AppName:       "my_app",
		USWDS:         true,
		GitHubActions: true,
		CloudGov:      DefaultCloudGov(),
		Extra: map[string]any{
			"python_version": "3.12",
			"uswds":          "shadowed",
		},
	}

	vars := opts.TemplateVars()

	assert.Equal(t, "my_app", vars["app_name"])
	assert.Equal(t, true, vars["uswds"], "typed keys win over extra keys")
	assert.Equal(t, false, vars["circleci"])
	assert.Equal(t, true, vars["github_actions"])
	assert.Equal(t, false, vars["cloud_gov_terraform"])
	assert.Equal(t, "3.12", vars["python_version"])

	cloudGov, ok := vars["cloud_gov"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ORGANIZATION", cloudGov["organization"])
	assert.Equal(t, "staging", cloudGov["staging_space"])
	assert.Equal(t, "prod", cloudGov["production_space"])
}

func TestClone_DoesNotShareExtra(t *testing.T) {
	opts := &Options{Extra: map[string]any{"a": "1"}}
	clone := opts.Clone()
	clone.Extra["a"] = "2"
	clone.USWDS = true

	assert.Equal(t, "1", opts.Extra["a"])
	assert.False(t, opts.USWDS)
}

func TestParseVars(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "strings and booleans",
			pairs: []string{"python_version=3.12", "sentry=true", "debug=false"},
			want:  map[string]any{"python_version": "3.12", "sentry": true, "debug": false},
		},
		{
			name:  "value may contain equals",
			pairs: []string{"dsn=a=b"},
			want:  map[string]any{"dsn": "a=b"},
		},
		{
			name:  "empty value",
			pairs: []string{"empty="},
			want:  map[string]any{"empty": ""},
		},
		{name: "missing equals", pairs: []string{"novalue"}, wantErr: true},
		{name: "empty key", pairs: []string{"=x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVars(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, oerrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
