package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column is one generated schema column, derived 1:1 from a scalar field
// or synthesized from a relation field.
type Column struct {
	Name string
	Type string
}

// Reference records a foreign-key relationship synthesized from a
// relation field: the target model name and the local key column.
type Reference struct {
	Name       string
	ForeignKey string
}

// RenderContext is the variable bag handed to artifact templates.
// Columns and References preserve field input order; generated column
// ordering depends on it.
type RenderContext struct {
	Name       string
	Table      string
	Timestamp  time.Time
	PkgName    string
	IsLink     bool
	Columns    []Column
	References []Reference
}

// Result is the outcome of rendering one artifact template: the rendered
// text, the path it was written to, and human-readable side messages.
type Result struct {
	Path     string
	Text     string
	Messages []string
}

// Renderer renders an artifact template against a context. The template
// syntax and file placement are its concern; generation logic treats it
// as opaque.
type Renderer interface {
	Render(tmpl Template, ctx RenderContext) (Result, error)
}

// Template is one embedded artifact template. Source starts with a
// "to:" destination line, a "---" separator, then the body.
type Template struct {
	Name   string
	Source string
}

var titleCaser = cases.Title(language.English, cases.NoLower)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"camel": inflect.Camelize,
		"snake": inflect.Underscore,
		"plural": func(s string) string {
			return inflect.Pluralize(s)
		},
		"title": titleCaser.String,
	}
}

// FileRenderer renders templates to files under a root directory.
type FileRenderer struct {
	// Root is the directory destination paths are resolved against.
	Root string
}

// NewFileRenderer returns a FileRenderer rooted at dir.
func NewFileRenderer(dir string) *FileRenderer {
	return &FileRenderer{Root: dir}
}

// Render splits the template into destination and body, executes both
// against ctx, writes the body to the destination path, and reports the
// written path as a side message.
func (r *FileRenderer) Render(tmpl Template, ctx RenderContext) (Result, error) {
	dest, body, err := splitTemplate(tmpl)
	if err != nil {
		return Result{}, err
	}

	path, err := execute(tmpl.Name+":to", dest, ctx)
	if err != nil {
		return Result{}, fmt.Errorf("render destination of %s: %w", tmpl.Name, err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, fmt.Errorf("template %s produced an empty destination", tmpl.Name)
	}

	text, err := execute(tmpl.Name, body, ctx)
	if err != nil {
		return Result{}, fmt.Errorf("render %s: %w", tmpl.Name, err)
	}

	full := filepath.Join(r.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Result{}, fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(text), 0o644); err != nil {
		return Result{}, fmt.Errorf("write artifact %s: %w", path, err)
	}

	return Result{
		Path:     full,
		Text:     text,
		Messages: []string{fmt.Sprintf("file written to %s", full)},
	}, nil
}

// splitTemplate separates the "to:" header from the template body.
func splitTemplate(tmpl Template) (dest, body string, err error) {
	src := tmpl.Source
	head, rest, found := strings.Cut(src, "\n---\n")
	if !found {
		return "", "", fmt.Errorf("template %s is missing the --- separator", tmpl.Name)
	}
	head = strings.TrimSpace(head)
	if !strings.HasPrefix(head, "to:") {
		return "", "", fmt.Errorf("template %s is missing the to: destination", tmpl.Name)
	}
	return strings.TrimSpace(strings.TrimPrefix(head, "to:")), rest, nil
}

func execute(name, src string, ctx RenderContext) (string, error) {
	t, err := template.New(name).Funcs(templateFuncs()).Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
