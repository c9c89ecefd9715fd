package annotations

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/toyz/arrow/internal/models"
)

// ProviderDirectives is the merged result of every directive on one provider
type ProviderDirectives struct {
	Name     mo.Option[string]
	Named    map[string]string // parameter -> binding name
	Defaults map[string]string // parameter -> Go literal
	Scope    mo.Option[models.Scope]
}

// ParseDirectives parses the directive lines of a provider's doc comment.
// Lines that are not //arrow:: directives are ignored. Any malformed or
// conflicting directive fails the whole set.
func (p *ParticipleParser) ParseDirectives(lines []string, location SourceLocation) (*ProviderDirectives, error) {
	result := &ProviderDirectives{
		Named:    make(map[string]string),
		Defaults: make(map[string]string),
	}

	for i, line := range lines {
		if !IsAnnotation(line) {
			continue
		}

		loc := location
		loc.Line += i
		annotation, err := p.ParseAnnotation(line, loc)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", loc.File, loc.Line, err)
		}

		if err := result.merge(annotation); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", loc.File, loc.Line, err)
		}
	}

	for param := range result.Defaults {
		if _, both := result.Named[param]; both {
			return nil, fmt.Errorf("parameter '%s' has both a binding name and a default", param)
		}
	}

	return result, nil
}

func (d *ProviderDirectives) merge(a *ParsedAnnotation) error {
	switch a.Type {
	case NameAnnotation:
		if d.Name.IsPresent() {
			return fmt.Errorf("provider already has a name")
		}
		d.Name = mo.Some(a.Positional()[0].Unquoted())

	case ScopeAnnotation:
		if d.Scope.IsPresent() {
			return fmt.Errorf("provider already has a scope")
		}
		scope, ok := models.ParseScope(a.Positional()[0].Unquoted())
		if !ok {
			return fmt.Errorf("invalid scope '%s'", a.Positional()[0].Text)
		}
		d.Scope = mo.Some(scope)

	case NamedAnnotation:
		for _, arg := range a.Keyed() {
			if _, dup := d.Named[arg.Key]; dup {
				return fmt.Errorf("parameter '%s' is already named", arg.Key)
			}
			d.Named[arg.Key] = arg.Value.Unquoted()
		}

	case DefaultAnnotation:
		for _, arg := range a.Keyed() {
			if _, dup := d.Defaults[arg.Key]; dup {
				return fmt.Errorf("parameter '%s' already has a default", arg.Key)
			}
			d.Defaults[arg.Key] = arg.Value.Literal()
		}
	}
	return nil
}
