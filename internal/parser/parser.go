package parser

import (
	"context"
	"errors"
	"go/ast"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/arrow/internal/annotations"
	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/models"
	"github.com/toyz/arrow/internal/utils"
)

// Parser implements DeclarationParser
type Parser struct {
	reader      *utils.FileReader
	annotations *annotations.ParticipleParser
	resolver    ImportPathResolver
	logger      zerolog.Logger
	concurrency int
}

// Option configures a Parser
type Option func(*Parser)

// WithImportPathResolver overrides go.mod based import path resolution
func WithImportPathResolver(resolver ImportPathResolver) Option {
	return func(p *Parser) { p.resolver = resolver }
}

// WithFileReader shares a FileReader (and its caches) with the parser
func WithFileReader(reader *utils.FileReader) Option {
	return func(p *Parser) { p.reader = reader }
}

// WithLogger sets the logger used for skip and progress tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithConcurrency bounds parallel file parsing
func WithConcurrency(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewParser creates a new declaration parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		annotations: annotations.NewParticipleParser(annotations.DefaultRegistry()),
		logger:      zerolog.Nop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.reader == nil {
		p.reader = utils.NewFileReader()
	}
	if p.resolver == nil {
		p.resolver = utils.NewGoModParser(p.reader)
	}
	return p
}

// Skipped records a member that looked like a provider but was not one
type Skipped struct {
	File   string
	Line   int
	Module string
	Member string
	Reason string
}

// Result is everything found in one parse run
type Result struct {
	Modules      []models.Module
	Declarations []models.Declaration
	Skipped      []Skipped
}

// sourceFile is one parsed file with its package identity
type sourceFile struct {
	path       string
	dir        string
	ast        *ast.File
	importPath string
}

// ParseFiles returns the deduplicated declarations of all files in file-path
// then source order
func (p *Parser) ParseFiles(ctx context.Context, paths []string) ([]models.Declaration, error) {
	result, err := p.Parse(ctx, paths)
	if err != nil {
		return nil, err
	}
	return result.Declarations, nil
}

// Parse parses all files in parallel and extracts modules and declarations.
// Unreadable files and Go syntax errors abort the run; every failing file is
// reported, not only the first.
func (p *Parser) Parse(ctx context.Context, paths []string) (*Result, error) {
	paths = lo.Uniq(lo.Map(paths, func(path string, _ int) string { return filepath.Clean(path) }))
	sort.Strings(paths)

	files := make([]*sourceFile, len(paths))
	failures := make([]arrowerrors.ArrowError, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			file, err := p.reader.ParseGoFile(path)
			if err != nil {
				var arrowErr arrowerrors.ArrowError
				if errors.As(err, &arrowErr) {
					failures[i] = arrowErr
					return nil
				}
				return err
			}

			dir := filepath.Dir(path)
			importPath, err := p.resolver.ImportPathForDir(dir)
			if err != nil {
				return arrowerrors.WrapFileSystemError("resolve import path for", dir, err)
			}

			files[i] = &sourceFile{path: path, dir: dir, ast: file, importPath: importPath}
			p.logger.Debug().Str("file", path).Str("import_path", importPath).Msg("parsed file")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var multiple *arrowerrors.MultipleErrors
	for _, failure := range failures {
		if failure != nil {
			arrowerrors.AddToMultiple(&multiple, failure)
		}
	}
	if err := multiple.ErrorOrNil(); err != nil {
		return nil, err
	}

	return p.extract(files), nil
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) ([]models.Declaration, error) {
	file, err := p.reader.ParseGoSource(filename, []byte(source))
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(filename)
	importPath, err := p.resolver.ImportPathForDir(dir)
	if err != nil {
		return nil, arrowerrors.WrapFileSystemError("resolve import path for", dir, err)
	}

	result := p.extract([]*sourceFile{{path: filename, dir: dir, ast: file, importPath: importPath}})
	return result.Declarations, nil
}

// extract groups files into packages, finds modules and turns their methods
// into declarations
func (p *Parser) extract(files []*sourceFile) *Result {
	result := &Result{}

	type packageKey struct{ dir, name string }
	groups := lo.GroupBy(files, func(f *sourceFile) packageKey {
		return packageKey{dir: f.dir, name: f.ast.Name.Name}
	})

	keys := lo.Keys(groups)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dir != keys[j].dir {
			return keys[i].dir < keys[j].dir
		}
		return keys[i].name < keys[j].name
	})

	// scanned packages are qualified by their package clause, which may
	// differ from the last element of the import path
	names := make(map[string]string, len(keys))
	for _, key := range keys {
		importPath := groups[key][0].importPath
		if _, ok := names[importPath]; !ok {
			names[importPath] = key.name
		}
	}

	for _, key := range keys {
		pkgFiles := groups[key]
		pkg := models.Import{Name: key.name, Path: pkgFiles[0].importPath}

		modules, generic := p.findModules(pkgFiles, pkg, names)
		for _, name := range sortedModuleNames(modules) {
			result.Modules = append(result.Modules, modules[name])
		}

		for _, file := range pkgFiles {
			decls, skipped := p.extractProviders(file, pkg, names, modules, generic)
			result.Declarations = append(result.Declarations, decls...)
			result.Skipped = append(result.Skipped, skipped...)
		}
	}

	sort.SliceStable(result.Declarations, func(i, j int) bool {
		a, b := result.Declarations[i], result.Declarations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	result.Declarations = lo.UniqBy(result.Declarations, func(d models.Declaration) string {
		return d.Fingerprint()
	})

	p.logger.Debug().
		Int("modules", len(result.Modules)).
		Int("declarations", len(result.Declarations)).
		Int("skipped", len(result.Skipped)).
		Msg("extraction complete")

	return result
}

func sortedModuleNames(modules map[string]models.Module) []string {
	names := lo.Keys(modules)
	sort.Strings(names)
	return names
}
