package generator

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/utils"
)

// postProcess drops qualifiers of the target's own package, removes unused
// imports and gofmts the result
func postProcess(filename string, source []byte, selfName, selfPath string) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return nil, arrowerrors.WrapGenerateError("parse", filename, err)
	}

	if selfName != "" {
		unqualify(file, selfName)
		astutil.DeleteNamedImport(fset, file, importAlias(file, selfPath), selfPath)
	}

	for _, spec := range append([]*ast.ImportSpec(nil), file.Imports...) {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if !astutil.UsesImport(file, path) {
			astutil.DeleteNamedImport(fset, file, importAlias(file, path), path)
		}
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, arrowerrors.WrapGenerateError("print", filename, err)
	}

	formatted, err := utils.FormatGoCode(filename, buf.Bytes())
	if err != nil {
		return nil, arrowerrors.WrapGenerateError("format", filename, err)
	}
	return formatted, nil
}

// unqualify rewrites name.X selectors to X
func unqualify(file *ast.File, name string) {
	astutil.Apply(file, func(c *astutil.Cursor) bool {
		sel, ok := c.Node().(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && id.Name == name {
			c.Replace(ast.NewIdent(sel.Sel.Name))
			return false
		}
		return true
	}, nil)
}

// importAlias returns the explicit name of an import, or "" when it has none
func importAlias(file *ast.File, path string) string {
	for _, spec := range file.Imports {
		if p, err := strconv.Unquote(spec.Path.Value); err == nil && p == path && spec.Name != nil {
			return spec.Name.Name
		}
	}
	return ""
}
