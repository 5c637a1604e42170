package templates

import (
	"bytes"
	"fmt"
	"maps"
	"path"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/iancoleman/strcase"
)

// FuncMap returns the functions available to every template: the sprig
// text functions plus case conversions.
func FuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["snake"] = strcase.ToSnake
	funcs["screamingSnake"] = strcase.ToScreamingSnake
	funcs["camel"] = strcase.ToCamel
	funcs["lowerCamel"] = strcase.ToLowerCamel
	funcs["kebab"] = strcase.ToKebab
	return funcs
}

// Renderer renders templates from a Set against a fixed variable map.
type Renderer struct {
	set   *Set
	vars  map[string]any
	funcs template.FuncMap
}

// NewRenderer binds set and a copy of vars.
func NewRenderer(set *Set, vars map[string]any) *Renderer {
	return &Renderer{
		set:   set,
		vars:  maps.Clone(vars),
		funcs: FuncMap(),
	}
}

// Set returns the template set the renderer reads from.
func (r *Renderer) Set() *Set {
	return r.set
}

// Render renders the named template.
func (r *Renderer) Render(name string) (string, error) {
	content, err := r.set.ReadFile(name)
	if err != nil {
		return "", err
	}
	return r.RenderBytes(name, content)
}

// RenderBytes renders content as a template; name is used in errors.
// Referencing an unknown variable is an error.
func (r *Renderer) RenderBytes(name string, content []byte) (string, error) {
	tmpl, err := template.New(path.Base(name)).
		Option("missingkey=error").
		Funcs(r.funcs).
		Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.vars); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}
