// Package templates renders the wiring file emitted by the generator.
package templates

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// FileData is the input of the dependencies file template
type FileData struct {
	PackageName   string
	ImportBlock   string
	Runtime       string // qualifier of the runtime container package
	Modules       []ModuleData
	Registrations []RegistrationData
}

// ModuleData is one module instance created by RegisterDependencies
type ModuleData struct {
	Var  string // local variable name
	Type string // qualified struct type
}

// RegistrationData is one arrow.Register call
type RegistrationData struct {
	Runtime      string
	Scope        string // Singleton or Transient
	Type         string // qualified produced type
	Name         string // binding name, empty for type-keyed registrations
	ModuleVar    string
	Member       string
	Args         []string
	ReturnsError bool
}

// ResolveArg renders the argument expression that resolves one dependency
func ResolveArg(runtime, typ, name string) string {
	if name == "" {
		return fmt.Sprintf("%s.Resolve[%s](r)", runtime, typ)
	}
	return fmt.Sprintf("%s.Resolve[%s](r, %s.Named(%s))", runtime, typ, runtime, strconv.Quote(name))
}

// RenderDependenciesFile executes the dependencies file template of the registry
func RenderDependenciesFile(registry *TemplateRegistry, data FileData) (string, error) {
	tmpl, err := template.New(DependenciesFileTemplate).
		Funcs(funcMap).
		Parse(registry.MustGet(DependenciesFileTemplate))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", DependenciesFileTemplate, err)
	}
	if _, err := tmpl.New(RegistrationTemplate).Parse(registry.MustGet(RegistrationTemplate)); err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", RegistrationTemplate, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", DependenciesFileTemplate, err)
	}
	return buf.String(), nil
}

var funcMap = template.FuncMap{
	"quote": strconv.Quote,
	"join":  strings.Join,
}
