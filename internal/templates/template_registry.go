package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// Template names
const (
	DependenciesFileTemplate = "dependencies-file"
	RegistrationTemplate     = "registration"
)

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.templates[DependenciesFileTemplate] = dependenciesFileTemplate
	registry.templates[RegistrationTemplate] = registrationTemplate

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Override replaces a template, mainly for tests
func (tr *TemplateRegistry) Override(name, body string) {
	tr.templates[name] = body
}

const dependenciesFileTemplate = `// Code generated by arrow. DO NOT EDIT.

package {{.PackageName}}

{{.ImportBlock}}
// RegisterDependencies registers every provider with c, dependencies first.
func RegisterDependencies(c *{{.Runtime}}.Container) error {
{{- range .Modules}}
	{{.Var}} := &{{.Type}}{}
{{- end}}
{{range .Registrations}}
{{template "` + RegistrationTemplate + `" .}}
{{- end}}

	return nil
}
`

const registrationTemplate = `	if err := {{.Runtime}}.Register(c, {{.Runtime}}.{{.Scope}}, func(r *{{.Runtime}}.Container) ({{.Type}}, error) {
		return {{.ModuleVar}}.{{.Member}}({{join .Args ", "}}){{if not .ReturnsError}}, nil{{end}}
	}{{if .Name}}, {{.Runtime}}.Named({{quote .Name}}){{end}}); err != nil {
		return err
	}`
