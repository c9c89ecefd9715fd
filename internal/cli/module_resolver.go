package cli

import (
	"os"
	"path/filepath"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/utils"
)

// ModuleResolver handles resolving Go module information.
// It implements parser.ImportPathResolver.
type ModuleResolver struct {
	gomod    *utils.GoModParser
	override string
}

// NewModuleResolver creates a resolver reading go.mod files through reader.
// A non-empty customModule replaces the module path found in go.mod.
func NewModuleResolver(reader *utils.FileReader, customModule string) *ModuleResolver {
	return &ModuleResolver{
		gomod:    utils.NewGoModParser(reader),
		override: customModule,
	}
}

// ResolveModuleName returns the module path that owns dir
func (r *ModuleResolver) ResolveModuleName(dir string) (string, error) {
	if r.override != "" {
		return r.override, nil
	}

	goMod, err := r.gomod.FindGoModFile(dir)
	if err != nil {
		return "", r.notFound(dir, err)
	}
	return r.gomod.ParseModuleName(goMod)
}

// ImportPathForDir builds the full import path for a package directory
func (r *ModuleResolver) ImportPathForDir(dir string) (string, error) {
	if r.override == "" {
		path, err := r.gomod.ImportPathForDir(dir)
		if err != nil {
			return "", r.notFound(dir, err)
		}
		return path, nil
	}

	// with an override, paths are relative to the go.mod directory, or to
	// the working directory when there is none
	base, err := os.Getwd()
	if err != nil {
		return "", arrowerrors.WrapFileSystemError("get", "working directory", err)
	}
	if goMod, err := r.gomod.FindGoModFile(dir); err == nil {
		base = filepath.Dir(goMod)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", arrowerrors.WrapFileSystemError("resolve", dir, err)
	}
	rel, err := filepath.Rel(base, absDir)
	if err != nil {
		return "", arrowerrors.WrapFileSystemError("resolve", dir, err)
	}
	return utils.JoinImportPath(r.override, rel), nil
}

func (r *ModuleResolver) notFound(dir string, cause error) error {
	err := arrowerrors.WrapConfigurationError(dir, "determine the module of", cause)
	err.WithSuggestion("Run arrow inside a Go module or pass --module")
	return err
}
