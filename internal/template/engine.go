// Package template renders templated route values such as request headers.
//
// Values use Go text/template syntax with the sprig function library, so a
// route can pull credentials from the environment instead of storing them in
// configuration:
//
//	headers:
//	  Authorization: 'Bearer {{ env "ORDERS_TOKEN" }}'
//	  X-Route: '{{ .Name | upper }}'
//
// Values without "{{" are returned untouched.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	gotemplate "text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders template strings and caches parsed templates.
type Engine struct {
	mu    sync.Mutex
	cache map[string]*gotemplate.Template
	funcs gotemplate.FuncMap
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		cache: make(map[string]*gotemplate.Template),
		funcs: sprig.TxtFuncMap(),
	}
}

// Render renders value against data. Missing keys are an error.
func (e *Engine) Render(value string, data interface{}) (string, error) {
	if !strings.Contains(value, "{{") {
		return value, nil
	}

	tmpl, err := e.parse(value)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// RenderMap renders every value of m. The input map is not modified.
func (e *Engine) RenderMap(m map[string]string, data interface{}) (map[string]string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		rendered, err := e.Render(v, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = rendered
	}
	return out, nil
}

func (e *Engine) parse(value string) (*gotemplate.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[value]; ok {
		return tmpl, nil
	}

	tmpl, err := gotemplate.New("value").
		Funcs(e.funcs).
		Option("missingkey=error").
		Parse(value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	e.cache[value] = tmpl
	return tmpl, nil
}
