// Package exec runs external tools inside the destination tree.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

// Result is the outcome of a command that ran to completion.
type Result struct {
	// Output is the combined stdout and stderr.
	Output   string
	ExitCode int
}

// Runner runs one command synchronously in dir. argv is passed to the
// process as-is, never through a shell. A non-zero exit or a failure to
// start returns a *errors.CommandError.
type Runner interface {
	Run(ctx context.Context, argv []string, dir string) (Result, error)
}

// RealRunner is the os/exec implementation of Runner.
type RealRunner struct {
	// Log receives a copy of the command output as it is produced. Optional.
	Log io.Writer
}

// NewRealRunner creates a new RealRunner.
func NewRealRunner(log io.Writer) *RealRunner {
	return &RealRunner{Log: log}
}

// Run implements Runner.
func (r *RealRunner) Run(ctx context.Context, argv []string, dir string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, &oerrors.CommandError{
			Dir:      dir,
			ExitCode: -1,
			Cause:    errors.New("empty command"),
		}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var combined bytes.Buffer
	var sink io.Writer = &combined
	if r.Log != nil {
		sink = io.MultiWriter(&combined, r.Log)
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	err := cmd.Run()
	result := Result{Output: combined.String()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			result.ExitCode = exitErr.ExitCode()
			return result, &oerrors.CommandError{
				Argv:     append([]string(nil), argv...),
				Dir:      dir,
				ExitCode: result.ExitCode,
				Output:   result.Output,
			}
		}
		result.ExitCode = -1
		return result, &oerrors.CommandError{
			Argv:     append([]string(nil), argv...),
			Dir:      dir,
			ExitCode: -1,
			Output:   result.Output,
			Cause:    err,
		}
	}

	return result, nil
}
