// Package templates renders the frontmatter blocks written into documents.
//
// Templates use Go's text/template with a flat data map (title, parent, share and
// the publishing key). Two built-in templates ship with the binary, one for the
// primary pass and one for diff overlays; either can be replaced by a file.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
)

// Names of the built-in templates.
const (
	Frontmatter = "frontmatter.tmpl"
	Overlay     = "overlay.tmpl"
)

//go:embed defaults/*.tmpl
var defaults embed.FS

// Template is a parsed frontmatter template.
type Template struct {
	name string
	tpl  *template.Template
}

// Parse compiles a template body. Referencing a key missing from the data map is
// a render error rather than a silent "<no value>".
func Parse(name, body string) (*Template, error) {
	tpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, ferrors.TemplateError("parse template").
			WithCause(err).
			WithContext("template", name).
			Fatal().
			Build()
	}
	return &Template{name: name, tpl: tpl}, nil
}

// Load parses the template at path, or the named built-in when path is empty.
func Load(path, builtin string) (*Template, error) {
	if path == "" {
		body, err := defaults.ReadFile("defaults/" + builtin)
		if err != nil {
			return nil, ferrors.InternalError("unknown built-in template").
				WithCause(err).
				WithContext("template", builtin).
				Build()
		}
		return Parse(builtin, string(body))
	}

	// #nosec G304 -- template path is supplied by the operator.
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.ConfigError("read template").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return Parse(path, string(body))
}

// Name returns the template's name (built-in name or file path).
func (t *Template) Name() string { return t.name }

// Render executes the template and returns the YAML block text.
func (t *Template) Render(data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, data); err != nil {
		return nil, ferrors.TemplateError("render template").
			WithCause(err).
			WithContext("template", t.name).
			Build()
	}
	return buf.Bytes(), nil
}

var funcs = template.FuncMap{
	"yaml":  yamlScalar,
	"bool":  yamlBool,
	"lower": strings.ToLower,
}

// yamlScalar renders s as a single-line YAML scalar, quoting only when needed.
func yamlScalar(s string) (string, error) {
	s = strings.Join(strings.Fields(s), " ")
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode %q: %w", s, err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// yamlBool renders true/false bare so they decode as booleans; anything else is quoted.
func yamlBool(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "true", "false":
		return v, nil
	default:
		return yamlScalar(s)
	}
}
