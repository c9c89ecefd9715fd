package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/models"
)

func newTestParser(t *testing.T) *ParticipleParser {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))
	return NewParticipleParser(registry)
}

func TestParticipleParser_Valid(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "core.go", Line: 4}

	tests := []struct {
		name     string
		input    string
		wantType AnnotationType
		wantArgs []Argument
	}{
		{
			name:     "name with bare word",
			input:    "//arrow::name Primary",
			wantType: NameAnnotation,
			wantArgs: []Argument{{Value: Value{Kind: WordValue, Text: "Primary"}}},
		},
		{
			name:     "name with string literal",
			input:    `//arrow::name "Read Replica"`,
			wantType: NameAnnotation,
			wantArgs: []Argument{{Value: Value{Kind: StringValue, Text: `"Read Replica"`}}},
		},
		{
			name:     "named with several parameters",
			input:    "//arrow::named primary=Primary replica=ReadReplica",
			wantType: NamedAnnotation,
			wantArgs: []Argument{
				{Key: "primary", Value: Value{Kind: WordValue, Text: "Primary"}},
				{Key: "replica", Value: Value{Kind: WordValue, Text: "ReadReplica"}},
			},
		},
		{
			name:     "default with number",
			input:    "//arrow::default port=8080",
			wantType: DefaultAnnotation,
			wantArgs: []Argument{{Key: "port", Value: Value{Kind: WordValue, Text: "8080"}}},
		},
		{
			name:     "default with quoted string",
			input:    `//arrow::default host="local host"`,
			wantType: DefaultAnnotation,
			wantArgs: []Argument{{Key: "host", Value: Value{Kind: StringValue, Text: `"local host"`}}},
		},
		{
			name:     "default with back-quoted expression",
			input:    "//arrow::default timeout=`5 * time.Second`",
			wantType: DefaultAnnotation,
			wantArgs: []Argument{{Key: "timeout", Value: Value{Kind: RawValue, Text: "5 * time.Second"}}},
		},
		{
			name:     "default with selector",
			input:    "//arrow::default level=zerolog.InfoLevel",
			wantType: DefaultAnnotation,
			wantArgs: []Argument{{Key: "level", Value: Value{Kind: WordValue, Text: "zerolog.InfoLevel"}}},
		},
		{
			name:     "scope",
			input:    "//arrow::scope singleton",
			wantType: ScopeAnnotation,
			wantArgs: []Argument{{Value: Value{Kind: WordValue, Text: "singleton"}}},
		},
		{
			name:     "leading space after slashes",
			input:    "  // arrow::scope transient",
			wantType: ScopeAnnotation,
			wantArgs: []Argument{{Value: Value{Kind: WordValue, Text: "transient"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.ParseAnnotation(tt.input, location)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, parsed.Type)
			assert.Equal(t, tt.wantArgs, parsed.Arguments)
			assert.Equal(t, location, parsed.Location)
		})
	}
}

func TestParticipleParser_Invalid(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name  string
		input string
	}{
		{"not a directive", "// just a comment"},
		{"unknown kind", "//arrow::inject Foo"},
		{"name without value", "//arrow::name"},
		{"name with two values", "//arrow::name A B"},
		{"name with keyed argument", "//arrow::name key=A"},
		{"empty name", `//arrow::name ""`},
		{"named without arguments", "//arrow::named"},
		{"named with positional", "//arrow::named Primary"},
		{"named duplicate key", "//arrow::named a=X a=Y"},
		{"default with invalid key", "//arrow::default 1x=3"},
		{"default with empty expression", "//arrow::default x=``"},
		{"scope with unknown value", "//arrow::scope request"},
		{"unterminated string", `//arrow::default host="local`},
		{"dangling equals", "//arrow::default port="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.input, SourceLocation{File: "x.go"})
			assert.Error(t, err)
		})
	}
}

func TestParticipleParser_SchemaError(t *testing.T) {
	parser := newTestParser(t)

	_, err := parser.ParseAnnotation("//arrow::scope request", SourceLocation{File: "x.go"})
	var schemaErr *arrowerrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "scope", schemaErr.Annotation)
	assert.Contains(t, schemaErr.Suggestions(), "//arrow::scope singleton\n//arrow::scope transient")

	// grammar failures are not schema errors
	_, err = parser.ParseAnnotation(`//arrow::default host="local`, SourceLocation{File: "x.go"})
	assert.False(t, errors.As(err, &schemaErr))
}

func TestParseDirectives_Merge(t *testing.T) {
	parser := newTestParser(t)
	lines := []string{
		"// NewServer builds the HTTP server.",
		"//arrow::name Public",
		"//arrow::named store=Primary",
		"//arrow::named cache=Redis",
		"//arrow::default port=8080 host=\"0.0.0.0\"",
		"//arrow::scope singleton",
	}

	directives, err := parser.ParseDirectives(lines, SourceLocation{File: "server.go", Line: 10})
	require.NoError(t, err)

	assert.Equal(t, "Public", directives.Name.MustGet())
	assert.Equal(t, map[string]string{"store": "Primary", "cache": "Redis"}, directives.Named)
	assert.Equal(t, map[string]string{"port": "8080", "host": `"0.0.0.0"`}, directives.Defaults)
	assert.Equal(t, models.ScopeSingleton, directives.Scope.MustGet())
}

func TestParseDirectives_NoDirectives(t *testing.T) {
	parser := newTestParser(t)

	directives, err := parser.ParseDirectives([]string{"// plain doc"}, SourceLocation{})
	require.NoError(t, err)
	assert.True(t, directives.Name.IsAbsent())
	assert.True(t, directives.Scope.IsAbsent())
	assert.Empty(t, directives.Named)
	assert.Empty(t, directives.Defaults)
}

func TestParseDirectives_Conflicts(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name  string
		lines []string
	}{
		{"two names", []string{"//arrow::name A", "//arrow::name B"}},
		{"two scopes", []string{"//arrow::scope singleton", "//arrow::scope transient"}},
		{"named twice across lines", []string{"//arrow::named s=A", "//arrow::named s=B"}},
		{"default twice across lines", []string{"//arrow::default p=1", "//arrow::default p=2"}},
		{"named and default", []string{"//arrow::named p=A", "//arrow::default p=1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseDirectives(tt.lines, SourceLocation{File: "x.go", Line: 1})
			assert.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))

	assert.Equal(t, []AnnotationType{NameAnnotation, NamedAnnotation, DefaultAnnotation, ScopeAnnotation}, registry.ListTypes())
	assert.True(t, registry.IsRegistered(ScopeAnnotation))

	err := registry.Register(NameAnnotation, NameAnnotationSchema)
	assert.Error(t, err, "duplicate registration")

	err = NewRegistry().Register(NameAnnotation, ScopeAnnotationSchema)
	assert.Error(t, err, "mismatched schema type")

	_, err = NewRegistry().GetSchema(NameAnnotation)
	assert.Error(t, err)

	assert.Same(t, DefaultRegistry(), DefaultRegistry())
	assert.True(t, DefaultRegistry().IsRegistered(DefaultAnnotation))
}

func TestValue_Unquoted(t *testing.T) {
	assert.Equal(t, "a b", Value{Kind: StringValue, Text: `"a b"`}.Unquoted())
	assert.Equal(t, "Primary", Value{Kind: WordValue, Text: "Primary"}.Unquoted())
	assert.Equal(t, `"a b"`, Value{Kind: StringValue, Text: `"a b"`}.Literal())
}
