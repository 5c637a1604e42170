package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func captureLog(cfg LogConfig) *bytes.Buffer {
	var buf bytes.Buffer
	setupLogging(&buf, cfg)
	return &buf
}

func TestSetupLogging_TimestampDefaultOn(t *testing.T) {
	buf := captureLog(LogConfig{})
	Info("test")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, buf.String(), "default output should start with a timestamp")
}

func TestSetupLogging_TimestampExplicitlyDisabled(t *testing.T) {
	buf := captureLog(LogConfig{Timestamps: BoolPtr(false)})
	Info("hello")
	out := strings.TrimSpace(buf.String())
	assert.NotRegexp(t, `^\d{1,2}:\d{2}:\d{2}`, out, "output should not start with a timestamp")
	assert.Contains(t, out, "hello")
}

func TestSetupLogging_VerboseForcesTimestampsOn(t *testing.T) {
	buf := captureLog(LogConfig{Verbose: true, Timestamps: BoolPtr(false)})
	Debug("verbose-msg")
	out := buf.String()
	assert.Contains(t, out, "verbose-msg", "debug message should appear in verbose mode")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, out, "verbose should force timestamps on")
}

func TestSetupLogging_DebugHiddenByDefault(t *testing.T) {
	buf := captureLog(LogConfig{})
	Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestSetupLogging_VerboseEnablesDebugLevel(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true})
	assert.Equal(t, log.DebugLevel, logger.GetLevel(), "verbose should set debug level")
}

func TestSetupLogging_DefaultInfoLevel(t *testing.T) {
	SetupLogging(LogConfig{})
	assert.Equal(t, log.InfoLevel, logger.GetLevel(), "default should be info level")
}

func TestStepLogger_HasPrefix(t *testing.T) {
	SetupLogging(LogConfig{})
	stepLog := StepLogger("create_readme")
	assert.NotNil(t, stepLog)
	assert.Contains(t, stepLog.GetPrefix(), "create_readme", "prefix should contain step name")
}

func TestStepLogger_InheritsLevel(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true})
	stepLog := StepLogger("create_readme")
	assert.Equal(t, log.DebugLevel, stepLog.GetLevel(), "step logger should inherit debug level")
}

func TestBoolPtr(t *testing.T) {
	assert.True(t, *BoolPtr(true))
	assert.False(t, *BoolPtr(false))
}
