package parser

import (
	"context"

	"github.com/toyz/arrow/internal/models"
)

// DeclarationParser extracts provider declarations from Go source files
type DeclarationParser interface {
	ParseFiles(ctx context.Context, paths []string) ([]models.Declaration, error)
	Parse(ctx context.Context, paths []string) (*Result, error)
	ParseSource(filename, source string) ([]models.Declaration, error)
}

// ImportPathResolver maps a package directory to its import path
type ImportPathResolver interface {
	ImportPathForDir(dir string) (string, error)
}

// StaticImportPaths resolves directories from a fixed table; used by tests
// and callers that already know their package layout
type StaticImportPaths map[string]string

// ImportPathForDir implements ImportPathResolver
func (s StaticImportPaths) ImportPathForDir(dir string) (string, error) {
	if path, ok := s[dir]; ok {
		return path, nil
	}
	if path, ok := s["*"]; ok {
		return path, nil
	}
	return "", &UnknownDirError{Dir: dir}
}

// UnknownDirError is returned by StaticImportPaths for unmapped directories
type UnknownDirError struct {
	Dir string
}

func (e *UnknownDirError) Error() string {
	return "no import path known for directory " + e.Dir
}

var _ DeclarationParser = (*Parser)(nil)
