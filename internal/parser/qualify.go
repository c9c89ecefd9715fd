package parser

import (
	"bytes"
	"go/ast"
	"go/format"
	goparser "go/parser"
	"go/token"
	"go/types"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/toyz/arrow/internal/models"
	"github.com/toyz/arrow/internal/utils"
)

// fileScope describes the names visible in one source file
type fileScope struct {
	pkg     models.Import            // the file's own package, canonical
	imports map[string]models.Import // local import name -> canonical import
	used    map[string]models.Import // canonical imports referenced since the last reset, by path
}

// newFileScope builds the scope of file. names maps import paths of scanned
// packages to their package clause; other imports are named after their path.
func newFileScope(file *ast.File, pkg models.Import, names map[string]string) *fileScope {
	scope := &fileScope{
		pkg:     pkg,
		imports: make(map[string]models.Import),
		used:    make(map[string]models.Import),
	}

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		canonical := models.Import{Name: utils.AssumedPackageName(path), Path: path}
		if name, ok := names[path]; ok {
			canonical.Name = name
		}

		local := canonical.Name
		if spec.Name != nil {
			local = spec.Name.Name
		}
		switch local {
		case "_", ".":
			// blank imports carry no names; dot-imported names are treated as local
			continue
		}

		scope.imports[local] = canonical
	}
	return scope
}

// resolveImport returns the canonical import a local qualifier refers to
func (s *fileScope) resolveImport(local string) (models.Import, bool) {
	imp, ok := s.imports[local]
	return imp, ok
}

// reset forgets the imports recorded by earlier rewrites
func (s *fileScope) reset() {
	s.used = make(map[string]models.Import)
}

// usedImports returns the imports referenced since the last reset and the
// file's own package, sorted by path
func (s *fileScope) usedImports() []models.Import {
	imports := append(lo.Values(s.used), s.pkg)
	imports = lo.UniqBy(imports, func(i models.Import) string { return i.Path })
	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })
	return imports
}

type qualifyMode int

const (
	// every non-predeclared bare identifier is a package-level type
	typeMode qualifyMode = iota
	// only exported bare identifiers are package-level names; the rest may be locals
	exprMode
)

// TypeText returns the canonical textual identity of a type expression
func (s *fileScope) TypeText(expr ast.Expr) (string, error) {
	src := types.ExprString(expr)
	fset := token.NewFileSet()
	parsed, err := goparser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		return "", err
	}
	return types.ExprString(s.rewrite(parsed, typeMode)), nil
}

// ExprText qualifies a default-value expression and returns it gofmt-ed
func (s *fileScope) ExprText(src string) (string, error) {
	fset := token.NewFileSet()
	parsed, err := goparser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, s.rewrite(parsed, exprMode)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *fileScope) rewrite(expr ast.Expr, mode qualifyMode) ast.Expr {
	result := astutil.Apply(expr, func(c *astutil.Cursor) bool {
		id, ok := c.Node().(*ast.Ident)
		if !ok {
			return true
		}

		switch c.Name() {
		case "Sel", "Names", "Label":
			return false
		case "Key":
			if _, isPair := c.Parent().(*ast.KeyValueExpr); isPair {
				return false
			}
		case "X":
			if _, isSel := c.Parent().(*ast.SelectorExpr); isSel {
				if imp, found := s.resolveImport(id.Name); found {
					s.used[imp.Path] = imp
					c.Replace(ast.NewIdent(imp.Name))
					return false
				}
				if mode == typeMode {
					// unknown qualifier, keep as written
					return false
				}
			}
		}

		if s.shouldQualify(id, mode) {
			c.Replace(&ast.SelectorExpr{
				X:   ast.NewIdent(s.pkg.Name),
				Sel: ast.NewIdent(id.Name),
			})
		}
		return false
	}, nil)

	return result.(ast.Expr)
}

func (s *fileScope) shouldQualify(id *ast.Ident, mode qualifyMode) bool {
	if id.Name == "_" || utils.IsPredeclared(id.Name) {
		return false
	}
	if mode == exprMode {
		return id.IsExported()
	}
	return true
}
