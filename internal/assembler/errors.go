package assembler

import "fmt"

// StepError reports the step that aborted a run. The partially written tree
// is left in place; re-running the assembler resumes from it.
type StepError struct {
	// Step is the name of the failed step.
	Step string

	// Err is the failure the step returned.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

// Unwrap returns the step failure.
func (e *StepError) Unwrap() error {
	return e.Err
}
