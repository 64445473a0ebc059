// Package tmpl provides template rendering utilities.
package tmpl

import (
	"bytes"
	"fmt"
	"text/template"
)

// Render executes a Go template string with the given data and functions.
// Returns an error if the template is invalid or references undefined keys.
func Render(tmpl string, data any, funcs template.FuncMap) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
