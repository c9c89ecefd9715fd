package models

import "github.com/samber/mo"

// DeclarationBuilder provides a fluent interface for building declarations
type DeclarationBuilder struct {
	decl Declaration
}

// NewDeclarationBuilder starts a provider declaration on the given module
func NewDeclarationBuilder(module string, pkg Import, member, produced string) *DeclarationBuilder {
	return &DeclarationBuilder{
		decl: Declaration{
			Module:        module,
			ModulePackage: pkg,
			MemberName:    member,
			ProducedType:  produced,
		},
	}
}

// WithScope sets the registration scope
func (b *DeclarationBuilder) WithScope(scope Scope) *DeclarationBuilder {
	b.decl.Scope = scope
	return b
}

// WithName sets the binding name
func (b *DeclarationBuilder) WithName(name string) *DeclarationBuilder {
	b.decl.BindingName = mo.Some(name)
	return b
}

// WithError marks the provider as returning (T, error)
func (b *DeclarationBuilder) WithError() *DeclarationBuilder {
	b.decl.ReturnsError = true
	return b
}

// WithImports adds canonical imports
func (b *DeclarationBuilder) WithImports(imports ...Import) *DeclarationBuilder {
	b.decl.Imports = append(b.decl.Imports, imports...)
	return b
}

// WithParam adds a type-keyed dependency parameter
func (b *DeclarationBuilder) WithParam(name, typ string) *DeclarationBuilder {
	b.decl.Parameters = append(b.decl.Parameters, Parameter{Name: name, Type: typ})
	return b
}

// WithNamedParam adds a parameter resolved by binding name
func (b *DeclarationBuilder) WithNamedParam(name, typ, key string) *DeclarationBuilder {
	b.decl.Parameters = append(b.decl.Parameters, Parameter{Name: name, Type: typ, BindingName: mo.Some(key)})
	return b
}

// WithDefault adds a parameter passed as a literal
func (b *DeclarationBuilder) WithDefault(name, typ, literal string) *DeclarationBuilder {
	b.decl.Parameters = append(b.decl.Parameters, Parameter{Name: name, Type: typ, LiteralDefault: mo.Some(literal)})
	return b
}

// At records the source location
func (b *DeclarationBuilder) At(file string, line int) *DeclarationBuilder {
	b.decl.File = file
	b.decl.Line = line
	return b
}

// Build returns the declaration with Dependencies derived from its parameters
func (b *DeclarationBuilder) Build() Declaration {
	decl := b.decl
	decl.Imports = append([]Import(nil), b.decl.Imports...)
	decl.Parameters = append([]Parameter(nil), b.decl.Parameters...)
	decl.DeriveDependencies()
	return decl
}
