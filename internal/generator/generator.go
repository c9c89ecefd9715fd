package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/models"
	"github.com/toyz/arrow/internal/templates"
	"github.com/toyz/arrow/internal/utils"
)

const (
	// DefaultFileName is the name of the generated wiring file
	DefaultFileName = "autogen_dependencies.go"

	// RuntimeImportPath is the package generated code registers against
	RuntimeImportPath = "github.com/toyz/arrow/pkg/arrow"

	// GeneratedHeader is the first line of every generated file
	GeneratedHeader = "// Code generated by arrow. DO NOT EDIT."
)

// names the generated function body already uses
var reservedNames = []string{"c", "r", "err"}

// Generator implements the CodeGenerator interface
type Generator struct {
	templates *templates.TemplateRegistry
	logger    zerolog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger used for generation tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithTemplates replaces the template registry
func WithTemplates(registry *templates.TemplateRegistry) Option {
	return func(g *Generator) { g.templates = registry }
}

// NewGenerator creates a new code generator instance
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		templates: templates.NewTemplateRegistry(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the wiring file for decls, which must already be in
// registration order. It does not re-validate the graph: a dependency without
// a provider is emitted as a Resolve call that fails at run time.
func (g *Generator) Generate(decls []models.Declaration, target models.Target) (*models.GeneratedFile, error) {
	if target.PackageName == "" {
		return nil, arrowerrors.NewGenerationError("render", "target package name cannot be empty")
	}
	fileName := target.FileName
	if fileName == "" {
		fileName = DefaultFileName
	}
	outPath := filepath.Join(target.Dir, fileName)

	imports := templates.NewImportManager()
	runtime := models.Import{Name: utils.AssumedPackageName(RuntimeImportPath), Path: RuntimeImportPath}
	runtime.Name = imports.Add(runtime)

	decls, err := assignQualifiers(decls, imports)
	if err != nil {
		return nil, withTarget(err, outPath)
	}

	modules := g.moduleVars(decls, imports.Names())

	data := templates.FileData{
		PackageName: target.PackageName,
		ImportBlock: imports.GenerateImports(),
		Runtime:     runtime.Name,
		Modules: lo.Map(modules.order, func(key string, _ int) templates.ModuleData {
			return templates.ModuleData{Var: modules.vars[key], Type: modules.types[key]}
		}),
	}

	for _, d := range decls {
		data.Registrations = append(data.Registrations, templates.RegistrationData{
			Runtime:      runtime.Name,
			Scope:        d.Scope.RuntimeIdent(),
			Type:         d.ProducedType,
			Name:         d.BindingName.OrEmpty(),
			ModuleVar:    modules.vars[moduleKey(d)],
			Member:       d.MemberName,
			Args:         arguments(d, runtime.Name),
			ReturnsError: d.ReturnsError,
		})
	}

	source, err := templates.RenderDependenciesFile(g.templates, data)
	if err != nil {
		return nil, arrowerrors.WrapGenerateError("render", outPath, err)
	}

	selfName := ""
	if target.ImportPath != "" {
		selfName, _ = imports.NameOf(target.ImportPath)
	}

	content, err := postProcess(outPath, []byte(source), selfName, target.ImportPath)
	if err != nil {
		g.logger.Debug().Str("target", outPath).Str("source", source).Msg("generated source rejected")
		return nil, err
	}

	g.logger.Debug().
		Str("target", outPath).
		Int("registrations", len(decls)).
		Int("modules", len(modules.order)).
		Msg("generated wiring file")

	return &models.GeneratedFile{
		PackageName: target.PackageName,
		FilePath:    outPath,
		Content:     string(content),
		Registered:  len(decls),
		Modules:     len(modules.order),
	}, nil
}

// moduleSet maps a module identity to its generated variable, in first-occurrence order
type moduleSet struct {
	order []string
	vars  map[string]string
	types map[string]string
}

func moduleKey(d models.Declaration) string {
	return d.ModulePackage.Path + "." + d.Module
}

// moduleVars picks one local variable per distinct module. The plain
// lower-camel name is used unless it is taken, then the package name is
// prefixed, then a counter is appended.
func (g *Generator) moduleVars(decls []models.Declaration, importNames map[string]bool) moduleSet {
	set := moduleSet{vars: make(map[string]string), types: make(map[string]string)}
	taken := make(map[string]bool)
	for name := range importNames {
		taken[name] = true
	}
	for _, name := range reservedNames {
		taken[name] = true
	}

	for _, d := range decls {
		key := moduleKey(d)
		if _, seen := set.vars[key]; seen {
			continue
		}

		candidate := d.ModuleVar()
		if taken[candidate] {
			candidate = lowerFirst(d.ModulePackage.Name) + upperFirst(d.Module)
		}
		base := candidate
		for i := 2; taken[candidate]; i++ {
			candidate = fmt.Sprintf("%s%d", base, i)
		}

		taken[candidate] = true
		set.order = append(set.order, key)
		set.vars[key] = candidate
		set.types[key] = d.QualifiedModule()
	}
	return set
}

// arguments renders the call arguments of one provider in parameter order
func arguments(d models.Declaration, runtime string) []string {
	return lo.Map(d.Parameters, func(p models.Parameter, _ int) string {
		if literal, ok := p.LiteralDefault.Get(); ok {
			return literal
		}
		return templates.ResolveArg(runtime, p.Type, p.BindingName.OrEmpty())
	})
}

func withTarget(err error, target string) error {
	var genErr *arrowerrors.GenerationError
	if errors.As(err, &genErr) {
		genErr.WithTargetFile(target)
	}
	return err
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
