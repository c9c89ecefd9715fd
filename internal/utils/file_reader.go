package utils

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	arrowerrors "github.com/toyz/arrow/internal/errors"
)

// FileReader reads and parses Go files, caching both until a file changes on
// disk. It is safe for concurrent use.
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *Cache[string, *ast.File]
	contentCache *Cache[string, []byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewCache[string, *ast.File](),
		contentCache: NewCache[string, []byte](),
	}
}

// FileSet returns the token.FileSet positions of parsed files belong to
func (fr *FileReader) FileSet() *token.FileSet {
	return fr.fileSet
}

// ReadFile returns a file's content. Failures are *errors.FileSystemError.
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath := filepath.Clean(filePath)

	if cached, ok := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, arrowerrors.WrapFileSystemError("read", cleanPath, err)
	}

	_ = fr.contentCache.SetWithFileInfo(cleanPath, content, cleanPath)
	return content, nil
}

// ParseGoFile parses a Go file with comments. Read failures are
// *errors.FileSystemError and syntax errors are *errors.SyntaxError.
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath := filepath.Clean(filePath)

	if cached, ok := fr.astCache.GetWithFileValidation(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := fr.ReadFile(cleanPath)
	if err != nil {
		return nil, err
	}

	file, err := fr.ParseGoSource(cleanPath, content)
	if err != nil {
		return nil, err
	}

	_ = fr.astCache.SetWithFileInfo(cleanPath, file, cleanPath)
	return file, nil
}

// ParseGoSource parses Go source held in memory
func (fr *FileReader) ParseGoSource(filename string, source []byte) (*ast.File, error) {
	file, err := parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, arrowerrors.WrapParseError(filename, err)
	}
	return file, nil
}

// InvalidateFile removes a specific file from the caches
func (fr *FileReader) InvalidateFile(filePath string) {
	cleanPath := filepath.Clean(filePath)
	fr.astCache.Delete(cleanPath)
	fr.contentCache.Delete(cleanPath)
}
