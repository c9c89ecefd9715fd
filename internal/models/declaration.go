package models

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Declaration describes one provider method found on a module.
// Everything except File and Line takes part in structural equality.
type Declaration struct {
	Module        string // module type name (e.g. CoreModule)
	ModulePackage Import // package the module lives in
	Scope         Scope  // registration scope, inherited from the module unless overridden
	Imports       []Import

	ProducedType string             // canonical text of the provided type
	BindingName  mo.Option[string]  // explicit registration name from //arrow::name
	MemberName   string             // provider method name
	ReturnsError bool               // provider returns (T, error)
	Parameters   []Parameter        // provider parameters in declaration order
	Dependencies []string           // edge keys, derived from Parameters

	File string
	Line int
}

// Key is the graph node identity: the binding name when present, otherwise the produced type
func (d Declaration) Key() string {
	return d.BindingName.OrElse(d.ProducedType)
}

// ModuleVar is the local variable name the generated code uses for the module instance
func (d Declaration) ModuleVar() string {
	if d.Module == "" {
		return "module"
	}

	// lower the leading initialism as a whole: DBModule -> dbModule
	var (
		upper []int // byte offsets of the leading upper-case runes
		end   int
	)
	for end < len(d.Module) {
		r, size := utf8.DecodeRuneInString(d.Module[end:])
		if !unicode.IsUpper(r) {
			break
		}
		upper = append(upper, end)
		end += size
	}
	if len(upper) > 1 && end < len(d.Module) {
		end = upper[len(upper)-1]
	}

	name := strings.ToLower(d.Module[:end]) + d.Module[end:]
	if token.IsKeyword(name) {
		name += "Module"
	}
	return name
}

// QualifiedModule is the module type as written from another package (core.CoreModule)
func (d Declaration) QualifiedModule() string {
	if d.ModulePackage.Name == "" {
		return d.Module
	}
	return d.ModulePackage.Name + "." + d.Module
}

// Fingerprint returns a stable structural identity used to drop duplicate
// declarations discovered through different files or scans
func (d Declaration) Fingerprint() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(s)
		b.WriteByte(0)
	}

	field(d.Module)
	field(d.ModulePackage.Name)
	field(d.ModulePackage.Path)
	field(d.Scope.String())
	for _, imp := range d.Imports {
		field(imp.Name + "=" + imp.Path)
	}
	field("|")
	field(d.ProducedType)
	field(optionText(d.BindingName))
	field(d.MemberName)
	if d.ReturnsError {
		field("error")
	} else {
		field("")
	}
	for _, p := range d.Parameters {
		field(p.Name)
		field(p.Type)
		field(optionText(p.LiteralDefault))
		field(optionText(p.BindingName))
	}
	field("|")
	for _, dep := range d.Dependencies {
		field(dep)
	}
	return b.String()
}

// DeriveDependencies recomputes Dependencies from Parameters
func (d *Declaration) DeriveDependencies() {
	d.Dependencies = lo.FilterMap(d.Parameters, func(p Parameter, _ int) (string, bool) {
		return p.DependencyKey(), p.IsDependency()
	})
}

// Parameter is one provider parameter
type Parameter struct {
	Name           string
	Type           string
	LiteralDefault mo.Option[string] // verbatim Go expression passed instead of resolving
	BindingName    mo.Option[string] // named dependency key from //arrow::named
}

// IsDependency reports whether the parameter is resolved from the container
func (p Parameter) IsDependency() bool {
	return p.LiteralDefault.IsAbsent()
}

// DependencyKey is the edge key for this parameter
func (p Parameter) DependencyKey() string {
	return p.BindingName.OrElse(p.Type)
}

// optionText renders an option so Some("") and None fingerprint differently
func optionText(o mo.Option[string]) string {
	if v, ok := o.Get(); ok {
		return "+" + v
	}
	return "-"
}
