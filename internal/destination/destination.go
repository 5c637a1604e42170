// Package destination resolves the directory a project is generated into and
// derives the application identifier from it.
package destination

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	oerrors "github.com/opmodel/djangogen/internal/errors"
)

// Destination is the absolute root of one generated project.
type Destination struct {
	// Path is the absolute, cleaned directory path.
	Path string

	// AppName is Identifier(Path), computed once.
	AppName string
}

// Resolve turns name into an absolute destination and creates the directory.
// Absolute names are used as given; relative names are joined to anchor.
func Resolve(name, anchor string) (*Destination, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, oerrors.NewInvalidDestinationError(name, errors.New("empty project name"))
	}

	path := trimmed
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(filepath.Join(anchor, path))
		if err != nil {
			return nil, oerrors.NewInvalidDestinationError(path, err)
		}
		path = abs
	}
	path = filepath.Clean(path)

	base := filepath.Base(path)
	if base == string(filepath.Separator) || base == "." || base == ".." {
		return nil, oerrors.NewInvalidDestinationError(path, errors.New("path has no final segment"))
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return nil, oerrors.NewInvalidDestinationError(path, fmt.Errorf("%s exists and is not a directory", path))
	case err != nil && !os.IsNotExist(err):
		return nil, oerrors.NewInvalidDestinationError(path, err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, oerrors.NewInvalidDestinationError(path, err)
	}

	return &Destination{
		Path:    path,
		AppName: Identifier(path),
	}, nil
}

// Identifier derives a Python identifier from the final segment of path:
// every rune that is not a letter, digit or underscore becomes "_", and a
// leading digit gets an "_" prefix. Identifier(Identifier(p)) == Identifier(p).
func Identifier(path string) string {
	name := filepath.Base(filepath.Clean(path))
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}

	var sb strings.Builder
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			sb.WriteByte('_')
		}
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte('_')
	}

	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
