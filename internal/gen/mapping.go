package gen

import (
	"errors"
	"sort"
)

// ErrUnknownType marks a field type tag with no schema mapping. It is a
// validation error: generation fails before any artifact is rendered or
// process spawned.
var ErrUnknownType = errors.New("unknown field type")

// ReferencesTag marks a field as a foreign-key relation rather than a
// scalar column. It expands into a "<name>_id" integer column plus a
// reference record during generation.
const ReferencesTag = "references"

// schemaTypes maps user-facing field type tags to schema column types.
// The relation tag is handled separately and deliberately absent here.
var schemaTypes = map[string]string{
	"text":        "text",
	"string":      "string",
	"int":         "integer",
	"big_int":     "big_integer",
	"small_int":   "small_integer",
	"float":       "float",
	"double":      "double",
	"decimal":     "decimal",
	"boolean":     "boolean",
	"bool":        "boolean",
	"timestamp":   "timestamp",
	"timestamptz": "timestamp_with_time_zone",
	"date":        "date",
	"time":        "time",
	"uuid":        "uuid",
	"json":        "json",
	"jsonb":       "json_binary",
	"blob":        "binary",
	"money":       "money",
}

// SchemaType resolves a field type tag to its schema column type.
// The second return is false for unknown tags; callers must fail with an
// error enumerating SchemaTags so the user can correct the spec.
func SchemaType(tag string) (string, bool) {
	t, ok := schemaTypes[tag]
	return t, ok
}

// SchemaTags returns every known field type tag, sorted, for error
// messages and for randomized field generation.
func SchemaTags() []string {
	tags := make([]string, 0, len(schemaTypes))
	for tag := range schemaTypes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
