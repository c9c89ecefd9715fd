package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	arrowerrors "github.com/toyz/arrow/internal/errors"
)

// AnnotationPrefix starts every directive comment
const AnnotationPrefix = "arrow::"

// ParticipleParser parses //arrow:: directives with a participle grammar
type ParticipleParser struct {
	parser   *participle.Parser[directive]
	registry AnnotationRegistry
}

// directive is the body after "//arrow::"
type directive struct {
	Kind string      `parser:"@Word"`
	Args []*argument `parser:"@@*"`
}

type argument struct {
	Key   string `parser:"(@Word Equals)?"`
	Value *value `parser:"@@"`
}

type value struct {
	String *string `parser:"  @String"`
	Raw    *string `parser:"| @RawString"`
	Word   *string `parser:"| @Word"`
}

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "RawString", Pattern: "`[^`]*`"},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: "[^\\s\"`=]+"},
	{Name: "Whitespace", Pattern: `\s+`},
})

// NewParticipleParser creates a new parser validating against the given registry.
// A nil registry skips schema validation.
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	parser := participle.MustBuild[directive](
		participle.Lexer(directiveLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	return &ParticipleParser{
		parser:   parser,
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is an //arrow:: directive
func IsAnnotation(comment string) bool {
	_, ok := stripPrefix(comment)
	return ok
}

func stripPrefix(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "//") {
		return "", false
	}
	content := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	if !strings.HasPrefix(content, AnnotationPrefix) {
		return "", false
	}
	return strings.TrimPrefix(content, AnnotationPrefix), true
}

// ParseAnnotation parses one directive comment line
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	body, ok := stripPrefix(comment)
	if !ok {
		return nil, fmt.Errorf("annotation must start with '//%s'", AnnotationPrefix)
	}

	ast, err := p.parser.ParseString(location.File, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse annotation: %w", err)
	}

	annotationType, err := ParseAnnotationType(ast.Kind)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedAnnotation{
		Type:     annotationType,
		Location: location,
		Raw:      strings.TrimSpace(comment),
	}
	for _, arg := range ast.Args {
		parsed.Arguments = append(parsed.Arguments, Argument{
			Key:   arg.Key,
			Value: arg.Value.convert(),
		})
	}

	if p.registry != nil {
		if err := p.validateAgainstSchema(parsed); err != nil {
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}
	}

	return parsed, nil
}

func (v *value) convert() Value {
	switch {
	case v.String != nil:
		return Value{Kind: StringValue, Text: *v.String}
	case v.Raw != nil:
		return Value{Kind: RawValue, Text: strings.TrimSpace(strings.Trim(*v.Raw, "`"))}
	case v.Word != nil:
		return Value{Kind: WordValue, Text: *v.Word}
	default:
		return Value{}
	}
}

// validateAgainstSchema checks the argument shape and runs custom validators
func (p *ParticipleParser) validateAgainstSchema(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return err
	}
	if err := checkArguments(schema, annotation); err != nil {
		schemaErr := arrowerrors.NewSchemaError(schema.Type.String(), err.Error())
		schemaErr.WithSuggestion(strings.Join(schema.Examples, "\n"))
		return schemaErr
	}
	return nil
}

func checkArguments(schema AnnotationSchema, annotation *ParsedAnnotation) error {
	positional := annotation.Positional()
	keyed := annotation.Keyed()

	if schema.Keyed {
		if len(positional) > 0 {
			return fmt.Errorf("%s annotation only accepts key=value arguments, got '%s'", schema.Type, positional[0].Text)
		}
		if len(keyed) == 0 {
			return fmt.Errorf("%s annotation requires at least one key=value argument", schema.Type)
		}
		seen := make(map[string]struct{}, len(keyed))
		for _, arg := range keyed {
			if _, dup := seen[arg.Key]; dup {
				return fmt.Errorf("parameter '%s' given twice", arg.Key)
			}
			seen[arg.Key] = struct{}{}
		}
	} else {
		if len(keyed) > 0 {
			return fmt.Errorf("unknown parameter '%s' for annotation type %s", keyed[0].Key, schema.Type)
		}
		if len(positional) != schema.Positional {
			return fmt.Errorf("%s annotation takes %d argument(s), got %d", schema.Type, schema.Positional, len(positional))
		}
	}

	for _, validate := range schema.Validators {
		if err := validate(annotation); err != nil {
			return err
		}
	}
	return nil
}
