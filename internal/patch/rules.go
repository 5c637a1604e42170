package patch

import (
	"regexp"
	"strings"
)

var secretKeyLine = regexp.MustCompile(`(?m)^\s*SECRET_KEY\s*=`)

// StripSecretKey removes every line assigning SECRET_KEY, including its
// line break.
func StripSecretKey() Rule {
	return NewRule(
		"strip-secret-key",
		`^[ \t]*SECRET_KEY[ \t]*=.*(?:\r?\n|$)`,
		"",
		func(content []byte) bool {
			return !secretKeyLine.Match(content)
		},
	)
}

// TemplateDirs points Django's empty TEMPLATES DIRS list at dir under BASE_DIR.
// Either quote style of the key is accepted and kept.
func TemplateDirs(dir string) Rule {
	value := `[BASE_DIR / "` + dir + `"],`
	done := regexp.MustCompile(`(?m)['"]DIRS['"]: ` + regexp.QuoteMeta(value))
	return NewRule(
		"template-dirs",
		`(['"])DIRS(['"]): \[\],`,
		"${1}DIRS${2}: "+strings.ReplaceAll(value, "$", "$$"),
		done.Match,
	)
}
