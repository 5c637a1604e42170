// Package patch rewrites generated text files with regular expressions.
package patch

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/spf13/afero"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

// Rule is one substitution applied to a whole file.
type Rule struct {
	// Name identifies the rule in errors and logs.
	Name string

	// Pattern is matched in multiline mode: ^ and $ anchor at line breaks.
	Pattern *regexp.Regexp

	// Replacement may reference groups with $1 or ${name}.
	Replacement string

	// Applied reports whether content is already in the target state.
	// When a pattern matches nothing and Applied is nil or false, File
	// fails with ErrPatchNotApplied.
	Applied func(content []byte) bool
}

// NewRule compiles pattern in multiline mode.
func NewRule(name, pattern, replacement string, applied func([]byte) bool) Rule {
	return Rule{
		Name:        name,
		Pattern:     regexp.MustCompile("(?m)" + pattern),
		Replacement: replacement,
		Applied:     applied,
	}
}

// Apply substitutes every non-overlapping match in content and returns the
// result with the number of matches.
func (r Rule) Apply(content []byte) ([]byte, int) {
	n := len(r.Pattern.FindAllIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return r.Pattern.ReplaceAll(content, []byte(r.Replacement)), n
}

// File applies rule to the file at path and writes it back when it changed.
// Returns the number of matches.
func File(fsys afero.Fs, path string, rule Rule) (int, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	patched, n := rule.Apply(content)
	if n == 0 {
		if rule.Applied != nil && rule.Applied(content) {
			return 0, nil
		}
		return 0, oerrors.NewPatchNotAppliedError(path, rule.Name)
	}

	if bytes.Equal(patched, content) {
		return n, nil
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return n, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := afero.WriteFile(fsys, path, patched, info.Mode().Perm()); err != nil {
		return n, fmt.Errorf("writing %s: %w", path, err)
	}
	return n, nil
}
