package cli

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/generator"
	"github.com/toyz/arrow/internal/graph"
	"github.com/toyz/arrow/internal/models"
	"github.com/toyz/arrow/internal/parser"
	"github.com/toyz/arrow/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	config         *Config
	reader         *utils.FileReader
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.DeclarationParser
	codeGenerator  generator.CodeGenerator
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	logger         zerolog.Logger
	summary        GenerationSummary
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the zerolog logger shared by every pipeline stage
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithDiagnostics sets the user-facing output
func WithDiagnostics(diagnostics *utils.DiagnosticSystem) Option {
	return func(g *Generator) { g.diagnostics = diagnostics }
}

// WithReporter sets the error and summary reporter
func WithReporter(reporter *DiagnosticReporter) Option {
	return func(g *Generator) { g.reporter = reporter }
}

// NewGenerator creates a new CLI generator for cfg
func NewGenerator(cfg *Config, opts ...Option) *Generator {
	if cfg.Output.File == "" {
		cfg.Output.File = generator.DefaultFileName
	}
	g := &Generator{
		config: cfg,
		reader: utils.NewFileReader(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.diagnostics == nil {
		g.diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	if g.reporter == nil {
		g.reporter = NewDiagnosticReporter(cfg.Verbose)
	}

	g.scanner = NewDirectoryScanner(cfg.Output.File, cfg.Exclude)
	g.moduleResolver = NewModuleResolver(g.reader, cfg.Module)
	g.parser = parser.NewParser(
		parser.WithFileReader(g.reader),
		parser.WithImportPathResolver(g.moduleResolver),
		parser.WithLogger(g.logger.With().Str("stage", "parse").Logger()),
	)
	g.codeGenerator = generator.NewGenerator(
		generator.WithLogger(g.logger.With().Str("stage", "generate").Logger()),
	)
	return g
}

// Plan is everything known about a run before the wiring file is rendered
type Plan struct {
	Files  []string
	Parsed *parser.Result
	Order  []models.Declaration
	Report *graph.Report
	Target models.Target
}

// Plan scans, parses and orders the declarations without writing anything
func (g *Generator) Plan(ctx context.Context) (*Plan, error) {
	if len(g.config.Directories) == 0 {
		return nil, arrowerrors.NewConfigurationError("directories", "at least one directory is required")
	}

	g.diagnostics.PhaseItem("Scanning %d directories", len(g.config.Directories))
	files, err := g.scanner.ScanFiles(g.config.Directories)
	if err != nil {
		return nil, err
	}
	g.logger.Debug().Strs("patterns", g.config.Directories).Int("files", len(files)).Msg("scanned")

	g.diagnostics.PhaseItem("Parsing %d files", len(files))
	parsed, err := g.parser.Parse(ctx, files)
	if err != nil {
		return nil, err
	}

	g.diagnostics.PhaseItem("Resolving %d providers", len(parsed.Declarations))
	order, report, err := graph.Resolve(parsed.Declarations, graph.Options{Strict: g.config.Strict})
	if err != nil {
		return nil, err
	}

	target, err := g.target()
	if err != nil {
		return nil, err
	}

	return &Plan{Files: files, Parsed: parsed, Order: order, Report: report, Target: target}, nil
}

// Run executes the complete generation process and writes the wiring file
func (g *Generator) Run(ctx context.Context) (*models.GeneratedFile, error) {
	start := time.Now()
	g.summary = GenerationSummary{}

	plan, err := g.Plan(ctx)
	if err != nil {
		return nil, err
	}
	g.reporter.ReportGraph(plan.Report, plan.Parsed.Skipped)

	g.diagnostics.PhaseItem("Generating %s", filepath.Join(plan.Target.Dir, plan.Target.FileName))
	file, err := g.codeGenerator.Generate(plan.Order, plan.Target)
	if err != nil {
		return nil, err
	}

	changed, err := writeFileAtomic(file.FilePath, []byte(file.Content))
	if err != nil {
		return nil, err
	}
	g.logger.Info().Str("file", file.FilePath).Bool("changed", changed).Msg("wiring file written")

	g.summary = GenerationSummary{
		FilesScanned: len(plan.Files),
		PackagesProcessed: len(lo.Uniq(lo.Map(plan.Files, func(f string, _ int) string {
			return filepath.Dir(f)
		}))),
		ModulesFound:   len(plan.Parsed.Modules),
		ProvidersFound: len(plan.Parsed.Declarations),
		Skipped:        len(plan.Parsed.Skipped),
		Unresolved:     len(plan.Report.Unresolved),
		Duplicates:     len(plan.Report.Duplicates),
		GeneratedFiles: []string{file.FilePath},
		Unchanged:      !changed,
		Duration:       time.Since(start),
	}
	return file, nil
}

// Summary returns the summary of the last successful Run
func (g *Generator) Summary() GenerationSummary {
	return g.summary
}

// Reporter returns the reporter the generator reports graph findings to
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// Invalidate drops cached contents of changed files before the next run
func (g *Generator) Invalidate(paths ...string) {
	for _, path := range paths {
		g.reader.InvalidateFile(path)
	}
}

// target works out where the wiring file goes and which package it belongs to
func (g *Generator) target() (models.Target, error) {
	dir := g.config.Output.Dir
	if dir == "" {
		dir = RootDir(g.config.Directories[0])
	}
	dir = filepath.Clean(dir)

	importPath, err := g.moduleResolver.ImportPathForDir(dir)
	if err != nil {
		return models.Target{}, err
	}

	pkg := g.config.Output.Package
	if pkg == "" {
		pkg = g.existingPackage(dir)
	}
	if pkg == "" {
		pkg = utils.AssumedPackageName(importPath)
	}

	return models.Target{
		PackageName: pkg,
		ImportPath:  importPath,
		Dir:         dir,
		FileName:    g.config.Output.File,
	}, nil
}

// existingPackage returns the package clause of the first Go file in dir
func (g *Generator) existingPackage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || !g.scanner.IsSource(path) {
			continue
		}
		if file, err := g.reader.ParseGoFile(path); err == nil {
			return file.Name.Name
		}
	}
	return ""
}

// writeFileAtomic replaces path through a temp file and rename, skipping the
// write when the content is unchanged. It reports whether the file changed.
func writeFileAtomic(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, arrowerrors.WrapFileSystemError("read", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, arrowerrors.WrapFileSystemError("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".arrow-*.tmp")
	if err != nil {
		return false, arrowerrors.WrapFileSystemError("create temp file in", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return false, arrowerrors.WrapFileSystemError("write", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return false, arrowerrors.WrapFileSystemError("write", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, arrowerrors.WrapFileSystemError("chmod", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, arrowerrors.WrapGenerateError("write", path, err)
	}
	return true, nil
}
