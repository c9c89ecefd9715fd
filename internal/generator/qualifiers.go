package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"

	"github.com/samber/mo"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/models"
	"github.com/toyz/arrow/internal/templates"
)

// assignQualifiers records the imports of every declaration and rewrites the
// declarations whose packages had to be renamed because another path already
// holds their name in the generated file.
func assignQualifiers(decls []models.Declaration, imports *templates.ImportManager) ([]models.Declaration, error) {
	out := make([]models.Declaration, 0, len(decls))
	for _, d := range decls {
		paths := make(map[string]string) // canonical name -> path, within d
		rename := make(map[string]string)

		for _, imp := range append([]models.Import{d.ModulePackage}, d.Imports...) {
			if imp.Name == "" || imp.Path == "" {
				continue
			}
			if path, ok := paths[imp.Name]; ok {
				if path != imp.Path {
					return nil, arrowerrors.ImportCollision(imp.Name, path, imp.Path)
				}
				continue
			}
			paths[imp.Name] = imp.Path

			if name := imports.Add(imp); name != imp.Name {
				rename[imp.Name] = name
			}
		}

		if len(rename) > 0 {
			renamed, err := requalify(d, rename)
			if err != nil {
				return nil, err
			}
			d = renamed
		}
		out = append(out, d)
	}
	return out, nil
}

// requalify applies rename to every type and literal the generated code
// prints for d
func requalify(d models.Declaration, rename map[string]string) (models.Declaration, error) {
	var err error
	apply := func(src string) string {
		if err != nil {
			return src
		}
		var text string
		text, err = renameQualifiers(src, rename)
		return text
	}

	d.ProducedType = apply(d.ProducedType)
	if name, ok := rename[d.ModulePackage.Name]; ok {
		d.ModulePackage.Name = name
	}

	params := make([]models.Parameter, len(d.Parameters))
	for i, p := range d.Parameters {
		p.Type = apply(p.Type)
		if literal, ok := p.LiteralDefault.Get(); ok {
			p.LiteralDefault = mo.Some(apply(literal))
		}
		params[i] = p
	}
	d.Parameters = params

	return d, err
}

// renameQualifiers rewrites the package qualifiers of a type or expression
func renameQualifiers(src string, rename map[string]string) (string, error) {
	fset := token.NewFileSet()
	expr, err := parser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		return "", arrowerrors.NewGenerationError("imports",
			fmt.Sprintf("cannot requalify '%s': %v", src, err))
	}

	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok {
			if name, found := rename[id.Name]; found {
				id.Name = name
			}
		}
		return true
	})

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, expr); err != nil {
		return "", arrowerrors.NewGenerationError("imports",
			fmt.Sprintf("cannot requalify '%s': %v", src, err))
	}
	return buf.String(), nil
}
