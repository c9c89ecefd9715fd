package annotations

import (
	"fmt"
	"go/token"
)

// Built-in annotation schemas

// NameAnnotationSchema defines //arrow::name
var NameAnnotationSchema = AnnotationSchema{
	Type:        NameAnnotation,
	Description: "Registers the provider under an explicit binding name",
	Positional:  1,
	Validators:  []CustomValidator{nonEmptyPositional},
	Examples: []string{
		"//arrow::name Primary",
		`//arrow::name "ReadReplica"`,
	},
}

// NamedAnnotationSchema defines //arrow::named
var NamedAnnotationSchema = AnnotationSchema{
	Type:        NamedAnnotation,
	Description: "Resolves parameters by binding name instead of type",
	Keyed:       true,
	Validators:  []CustomValidator{identifierKeys, nonEmptyValues},
	Examples: []string{
		"//arrow::named store=Primary",
		"//arrow::named primary=Primary replica=ReadReplica",
	},
}

// DefaultAnnotationSchema defines //arrow::default
var DefaultAnnotationSchema = AnnotationSchema{
	Type:        DefaultAnnotation,
	Description: "Passes a Go literal instead of resolving the parameter",
	Keyed:       true,
	Validators:  []CustomValidator{identifierKeys, nonEmptyValues},
	Examples: []string{
		"//arrow::default port=8080",
		`//arrow::default host="localhost"`,
		"//arrow::default timeout=`5 * time.Second`",
	},
}

// ScopeAnnotationSchema defines //arrow::scope
var ScopeAnnotationSchema = AnnotationSchema{
	Type:        ScopeAnnotation,
	Description: "Overrides the module scope for one provider",
	Positional:  1,
	Validators: []CustomValidator{func(a *ParsedAnnotation) error {
		switch a.Positional()[0].Unquoted() {
		case "singleton", "transient":
			return nil
		default:
			return fmt.Errorf("scope must be 'singleton' or 'transient', got '%s'", a.Positional()[0].Text)
		}
	}},
	Examples: []string{
		"//arrow::scope singleton",
		"//arrow::scope transient",
	},
}

// RegisterBuiltinSchemas registers every built-in directive
func RegisterBuiltinSchemas(r AnnotationRegistry) error {
	for _, schema := range []AnnotationSchema{
		NameAnnotationSchema,
		NamedAnnotationSchema,
		DefaultAnnotationSchema,
		ScopeAnnotationSchema,
	} {
		if err := r.Register(schema.Type, schema); err != nil {
			return err
		}
	}
	return nil
}

func nonEmptyPositional(a *ParsedAnnotation) error {
	for _, v := range a.Positional() {
		if v.Unquoted() == "" {
			return fmt.Errorf("%s annotation value cannot be empty", a.Type)
		}
	}
	return nil
}

func identifierKeys(a *ParsedAnnotation) error {
	for _, arg := range a.Keyed() {
		if !token.IsIdentifier(arg.Key) {
			return fmt.Errorf("'%s' is not a parameter name", arg.Key)
		}
	}
	return nil
}

func nonEmptyValues(a *ParsedAnnotation) error {
	for _, arg := range a.Keyed() {
		if arg.Value.Literal() == "" {
			return fmt.Errorf("parameter '%s' has an empty value", arg.Key)
		}
	}
	return nil
}
