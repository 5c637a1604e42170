package output

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// IsTTY reports whether stdout is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
}

// WithTitle sets the spinner title, usually the command line being run.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner runs action behind a spinner while stdout is a terminal,
// and directly otherwise. The spinner stops when action returns or ctx is
// done; action is expected to observe ctx itself.
func RunWithSpinner(ctx context.Context, action func() error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}
	for _, opt := range opts {
		opt(cfg)
	}

	if !IsTTY() {
		return action()
	}

	return runWithIndicator(ctx, action, func(wait func()) error {
		return spinner.New().Title(cfg.title).Action(wait).Run()
	})
}

// runWithIndicator runs action in the background while show draws until
// wait returns. The result only travels over channels, so show may return
// before wait does.
func runWithIndicator(ctx context.Context, action func() error, show func(wait func()) error) error {
	errCh := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		errCh <- action()
		close(done)
	}()

	if err := show(func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
	}); err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}

	// On cancellation the action observes ctx and returns shortly.
	return <-errCh
}
