package gen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/inflect"
	"go.uber.org/zap"
)

// ignoredFields are generated automatically by the strut runtime for every
// model. A field spec naming one of these is a harmless, common mistake:
// it is skipped with a warning rather than rejected.
var ignoredFields = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"create_at":  {},
	"update_at":  {},
}

// Field is one user-supplied field specification: an identifier and a
// type tag (a known scalar, or the relation marker).
type Field struct {
	Name string
	Type string
}

// ParseFields parses "name:type" CLI arguments into Fields, preserving
// argument order.
func ParseFields(args []string) ([]Field, error) {
	fields := make([]Field, 0, len(args))
	for _, arg := range args {
		name, typ, ok := strings.Cut(arg, ":")
		if !ok || name == "" || typ == "" {
			return nil, fmt.Errorf("invalid field spec %q: expected name:type", arg)
		}
		fields = append(fields, Field{Name: name, Type: typ})
	}
	return fields, nil
}

// ModelRequest carries the inputs of one model generation.
type ModelRequest struct {
	// Name is the model name, e.g. "post" or "movie".
	Name string

	// IsLink marks the model as a pure join table between two others.
	IsLink bool

	// MigrationOnly skips the downstream migrate/entities trigger.
	MigrationOnly bool

	// Fields are the user-supplied field specs, in input order.
	Fields []Field

	// PkgName is the owning application's package name.
	PkgName string
}

// ModelGenerator composes type mapping, artifact rendering and the
// downstream migration trigger into the single Generate operation.
type ModelGenerator struct {
	Renderer Renderer
	Trigger  *MigrationTrigger
	Log      *zap.SugaredLogger

	// Now supplies the generation timestamp; injectable for
	// deterministic artifact tests. Nil means time.Now.
	Now func() time.Time
}

// Generate maps fields to columns, renders the model artifact and its
// companion test, and unless MigrationOnly is set triggers migration and
// entity regeneration. It either fully succeeds or fails with an
// attributable error before any external process is spawned: type
// resolution happens before rendering, rendering before the trigger.
//
// On migration failure the rendered artifacts are left on disk while the
// database schema may lag behind them; the whole generation must then be
// retried manually.
func (g *ModelGenerator) Generate(ctx context.Context, req ModelRequest) (string, error) {
	columns, references, err := g.mapFields(req.Fields)
	if err != nil {
		return "", err
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	rctx := RenderContext{
		Name:       req.Name,
		Table:      inflect.Tableize(req.Name),
		Timestamp:  now().UTC(),
		PkgName:    req.PkgName,
		IsLink:     req.IsLink,
		Columns:    columns,
		References: references,
	}

	model, err := g.Renderer.Render(ModelTemplate, rctx)
	if err != nil {
		return "", fmt.Errorf("generate model artifact: %w", err)
	}
	test, err := g.Renderer.Render(ModelTestTemplate, rctx)
	if err != nil {
		return "", fmt.Errorf("generate model test artifact: %w", err)
	}

	if !req.MigrationOnly {
		if err := g.Trigger.Run(ctx); err != nil {
			return "", err
		}
	}

	messages := append([]string{}, model.Messages...)
	messages = append(messages, test.Messages...)
	return strings.Join(messages, "\n"), nil
}

// mapFields resolves field specs into ordered columns and references.
// Ignored framework fields are skipped with a warning; the first unknown
// type tag aborts the whole generation.
func (g *ModelGenerator) mapFields(fields []Field) ([]Column, []Reference, error) {
	var columns []Column
	var references []Reference

	for _, f := range fields {
		if _, ok := ignoredFields[f.Name]; ok {
			g.Log.Warnw("redundant field specified, it is already generated automatically",
				"field", f.Name)
			continue
		}

		if f.Type == ReferencesTag {
			fkey := f.Name + "_id"
			columns = append(columns, Column{Name: fkey, Type: "integer"})
			references = append(references, Reference{Name: f.Name, ForeignKey: fkey})
			continue
		}

		schemaType, ok := SchemaType(f.Type)
		if !ok {
			return nil, nil, fmt.Errorf("%w: type %q not found. try any of: %v",
				ErrUnknownType, f.Type, SchemaTags())
		}
		columns = append(columns, Column{Name: f.Name, Type: schemaType})
	}

	return columns, references, nil
}
