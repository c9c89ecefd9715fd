package annotations

import (
	"fmt"
	"strconv"
)

// AnnotationType represents the kind of an //arrow:: directive
type AnnotationType int

const (
	NameAnnotation AnnotationType = iota
	NamedAnnotation
	DefaultAnnotation
	ScopeAnnotation
)

// String returns the directive keyword
func (a AnnotationType) String() string {
	switch a {
	case NameAnnotation:
		return "name"
	case NamedAnnotation:
		return "named"
	case DefaultAnnotation:
		return "default"
	case ScopeAnnotation:
		return "scope"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts a directive keyword to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "name":
		return NameAnnotation, nil
	case "named":
		return NamedAnnotation, nil
	case "default":
		return DefaultAnnotation, nil
	case "scope":
		return ScopeAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// ValueKind tells how a value was written
type ValueKind int

const (
	WordValue   ValueKind = iota // bare token: Primary, 8080, time.Second
	StringValue                  // Go interpreted string literal: "localhost"
	RawValue                     // back-quoted expression: `time.Second * 5`
)

// Value is one annotation argument value
type Value struct {
	Kind ValueKind
	Text string // as written, including quotes for StringValue, without backquotes for RawValue
}

// Literal returns the text to paste into Go source unchanged
func (v Value) Literal() string {
	return v.Text
}

// Unquoted returns the value with Go string quoting removed
func (v Value) Unquoted() string {
	if v.Kind == StringValue {
		if s, err := strconv.Unquote(v.Text); err == nil {
			return s
		}
	}
	return v.Text
}

// Argument is a positional (Key == "") or keyed argument
type Argument struct {
	Key   string
	Value Value
}

// ParsedAnnotation represents a parsed //arrow:: directive
type ParsedAnnotation struct {
	Type      AnnotationType
	Arguments []Argument
	Location  SourceLocation
	Raw       string
}

// Positional returns the positional arguments in order
func (p *ParsedAnnotation) Positional() []Value {
	var out []Value
	for _, arg := range p.Arguments {
		if arg.Key == "" {
			out = append(out, arg.Value)
		}
	}
	return out
}

// Keyed returns the keyed arguments in order
func (p *ParsedAnnotation) Keyed() []Argument {
	var out []Argument
	for _, arg := range p.Arguments {
		if arg.Key != "" {
			out = append(out, arg)
		}
	}
	return out
}

// GetString returns a keyed value's unquoted text, or the default
func (p *ParsedAnnotation) GetString(key string, defaultValue ...string) string {
	for _, arg := range p.Arguments {
		if arg.Key == key {
			return arg.Value.Unquoted()
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasParameter reports whether a keyed argument is present
func (p *ParsedAnnotation) HasParameter(key string) bool {
	for _, arg := range p.Arguments {
		if arg.Key == key {
			return true
		}
	}
	return false
}

// CustomValidator validates an annotation beyond its argument shape
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema defines the accepted argument shape of a directive
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Positional  int  // exact number of positional arguments
	Keyed       bool // at least one key=value argument required, positional ones rejected
	Validators  []CustomValidator
	Examples    []string
}
