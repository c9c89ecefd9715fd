package parser

import (
	"go/ast"

	"github.com/samber/lo"

	"github.com/toyz/arrow/internal/annotations"
	"github.com/toyz/arrow/internal/models"
)

// extractProviders turns the methods of known modules declared in one file
// into declarations, in source order
func (p *Parser) extractProviders(file *sourceFile, pkg models.Import, names map[string]string, modules map[string]models.Module, generic map[string]bool) ([]models.Declaration, []Skipped) {
	var (
		decls   []models.Declaration
		skipped []Skipped
	)
	scope := newFileScope(file.ast, pkg, names)

	for _, decl := range file.ast.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}

		receiver, isGeneric := receiverName(fn.Recv.List[0].Type)
		line := p.reader.FileSet().Position(fn.Pos()).Line
		skip := func(reason string) {
			skipped = append(skipped, Skipped{
				File:   file.path,
				Line:   line,
				Module: receiver,
				Member: fn.Name.Name,
				Reason: reason,
			})
			p.logger.Debug().
				Str("file", file.path).
				Int("line", line).
				Str("module", receiver).
				Str("member", fn.Name.Name).
				Str("reason", reason).
				Msg("skipping member")
		}

		if isGeneric || generic[receiver] {
			if generic[receiver] {
				skip(SkipGenericReceiver)
			}
			continue
		}

		module, ok := modules[receiver]
		if !ok {
			continue
		}
		if !fn.Name.IsExported() {
			skip(SkipUnexported)
			continue
		}

		d, reason := p.buildDeclaration(fn, file, module, scope, line)
		if reason != "" {
			skip(reason)
			continue
		}
		decls = append(decls, d)
	}

	return decls, skipped
}

// buildDeclaration returns a declaration, or a non-empty skip reason
func (p *Parser) buildDeclaration(fn *ast.FuncDecl, file *sourceFile, module models.Module, scope *fileScope, line int) (models.Declaration, string) {
	scope.reset()
	produced, returnsError, reason := resultShape(fn.Type.Results, scope)
	if reason != "" {
		return models.Declaration{}, reason
	}

	type rawParam struct {
		name string
		typ  ast.Expr
	}
	var params []rawParam
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			if _, variadic := field.Type.(*ast.Ellipsis); variadic {
				return models.Declaration{}, SkipVariadic
			}
			if len(field.Names) == 0 {
				params = append(params, rawParam{typ: field.Type})
				continue
			}
			for _, name := range field.Names {
				params = append(params, rawParam{name: name.Name, typ: field.Type})
			}
		}
	}

	directives, err := p.annotations.ParseDirectives(docLines(fn.Doc), annotations.SourceLocation{
		File: file.path,
		Line: docLine(p, fn, line),
	})
	if err != nil {
		p.logger.Debug().Err(err).Str("member", fn.Name.Name).Msg("annotation rejected")
		return models.Declaration{}, SkipAnnotation
	}

	names := lo.Map(params, func(rp rawParam, _ int) string { return rp.name })
	for _, key := range append(lo.Keys(directives.Named), lo.Keys(directives.Defaults)...) {
		if !lo.Contains(names, key) {
			return models.Declaration{}, SkipUnknownParameter
		}
	}

	builder := models.NewDeclarationBuilder(module.Name, module.Package, fn.Name.Name, produced).
		WithScope(directives.Scope.OrElse(module.Scope)).
		At(file.path, line)
	if name, ok := directives.Name.Get(); ok {
		builder.WithName(name)
	}
	if returnsError {
		builder.WithError()
	}

	for _, rp := range params {
		typ, err := scope.TypeText(rp.typ)
		if err != nil {
			return models.Declaration{}, SkipTypeExpr
		}

		if literal, ok := directives.Defaults[rp.name]; ok {
			expr, err := scope.ExprText(literal)
			if err != nil {
				return models.Declaration{}, SkipDefaultExpr
			}
			builder.WithDefault(rp.name, typ, expr)
			continue
		}
		if key, ok := directives.Named[rp.name]; ok {
			builder.WithNamedParam(rp.name, typ, key)
			continue
		}
		builder.WithParam(rp.name, typ)
	}

	// only imports the provider's signature and defaults refer to
	builder.WithImports(scope.usedImports()...)
	return builder.Build(), ""
}

// resultShape accepts T and (T, error)
func resultShape(results *ast.FieldList, scope *fileScope) (string, bool, string) {
	if results == nil || len(results.List) == 0 {
		return "", false, SkipNoResult
	}

	var types []ast.Expr
	for _, field := range results.List {
		n := max(1, len(field.Names))
		for i := 0; i < n; i++ {
			types = append(types, field.Type)
		}
	}

	var returnsError bool
	switch len(types) {
	case 1:
	case 2:
		if !isErrorIdent(types[1]) {
			return "", false, SkipResultShape
		}
		returnsError = true
	default:
		return "", false, SkipResultShape
	}

	if isErrorIdent(types[0]) {
		return "", false, SkipErrorOnly
	}

	produced, err := scope.TypeText(types[0])
	if err != nil {
		return "", false, SkipTypeExpr
	}
	return produced, returnsError, ""
}

func isErrorIdent(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "error"
}

// receiverName returns the receiver's base type name and whether it is instantiated
func receiverName(expr ast.Expr) (string, bool) {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, false
	case *ast.IndexExpr:
		name, _ := receiverName(t.X)
		return name, true
	case *ast.IndexListExpr:
		name, _ := receiverName(t.X)
		return name, true
	}
	return "", false
}

func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	return lo.Map(doc.List, func(c *ast.Comment, _ int) string { return c.Text })
}

func docLine(p *Parser, fn *ast.FuncDecl, fallback int) int {
	if fn.Doc == nil || len(fn.Doc.List) == 0 {
		return fallback
	}
	return p.reader.FileSet().Position(fn.Doc.List[0].Pos()).Line
}
