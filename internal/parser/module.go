package parser

import (
	"go/ast"
	"go/token"

	"github.com/toyz/arrow/internal/models"
)

// findModules returns the exported structs of one package that embed a scope
// marker, keyed by type name. Generic structs that embed a marker are
// returned separately so their methods can be reported as skipped.
func (p *Parser) findModules(files []*sourceFile, pkg models.Import, names map[string]string) (map[string]models.Module, map[string]bool) {
	modules := make(map[string]models.Module)
	generic := make(map[string]bool)

	for _, file := range files {
		scope := newFileScope(file.ast, pkg, names)

		for _, decl := range file.ast.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				st, ok := typeSpec.Type.(*ast.StructType)
				if !ok {
					continue
				}

				moduleScope, found := markerScope(st, scope)
				if !found {
					continue
				}

				name := typeSpec.Name.Name
				switch {
				case typeSpec.TypeParams != nil && len(typeSpec.TypeParams.List) > 0:
					generic[name] = true
					p.logger.Debug().Str("file", file.path).Str("module", name).Msg("skipping generic module")
					continue
				case !typeSpec.Name.IsExported():
					p.logger.Debug().Str("file", file.path).Str("module", name).Msg("skipping unexported module")
					continue
				}

				if _, dup := modules[name]; dup {
					continue
				}
				modules[name] = models.Module{
					Name:    name,
					Package: pkg,
					Scope:   moduleScope,
					File:    file.path,
					Line:    p.reader.FileSet().Position(typeSpec.Pos()).Line,
				}
			}
		}
	}

	return modules, generic
}

// markerScope reports the scope of the first embedded marker in a struct
func markerScope(st *ast.StructType, scope *fileScope) (models.Scope, bool) {
	if st.Fields == nil {
		return 0, false
	}

	for _, field := range st.Fields.List {
		if len(field.Names) > 0 {
			continue
		}

		typ := field.Type
		if star, ok := typ.(*ast.StarExpr); ok {
			typ = star.X
		}

		var marker string
		switch t := typ.(type) {
		case *ast.Ident:
			marker = t.Name
		case *ast.SelectorExpr:
			qualifier, ok := t.X.(*ast.Ident)
			if !ok || !isRuntimeQualifier(qualifier.Name, scope) {
				continue
			}
			marker = t.Sel.Name
		default:
			continue
		}

		switch marker {
		case SingletonMarker:
			return models.ScopeSingleton, true
		case TransientMarker:
			return models.ScopeTransient, true
		}
	}

	return 0, false
}

func isRuntimeQualifier(local string, scope *fileScope) bool {
	if imp, ok := scope.resolveImport(local); ok {
		return imp.Path == RuntimeImportPath
	}
	return local == RuntimePackageName
}
