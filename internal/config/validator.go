package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

//go:embed schema/settings.cue
var settingsSchemaCUE []byte

// ValidationError is one field that failed schema validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		fmt.Fprintf(&sb, "  %s: %s\n", err.Field, err.Message)
	}
	return sb.String()
}

// Unwrap ties validation failures to the validation sentinel.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator validates settings against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new settings validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(settingsSchemaCUE, cue.Filename("settings.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Settings"))
	if !def.Exists() {
		return nil, fmt.Errorf("schema has no #Settings definition")
	}

	return &Validator{ctx: ctx, schema: def}, nil
}

// Validate checks s against the schema.
func (v *Validator) Validate(s *Settings) error {
	value := v.ctx.Encode(s)
	if value.Err() != nil {
		return fmt.Errorf("encoding settings: %w", value.Err())
	}

	err := v.schema.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return errs
}

// ValidateFile loads the settings file at path (with env overrides and
// defaults applied) and validates the result.
func (v *Validator) ValidateFile(path string) error {
	s, err := NewLoader().Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	return v.Validate(s)
}

// fieldPath joins a CUE error path into a settings key, dropping the
// leading definition selectors ("#Settings").
func fieldPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
