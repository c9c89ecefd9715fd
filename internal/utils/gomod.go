package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModParser resolves module paths and package import paths from go.mod files
type GoModParser struct {
	fileReader *FileReader
	modules    *Cache[string, string] // go.mod path -> module path
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
		modules:    NewCache[string, string](),
	}
}

// ParseModuleName extracts the module path from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	if cached, ok := p.modules.GetWithFileValidation(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return "", err
	}

	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}

	_ = p.modules.SetWithFileInfo(cleanPath, modFile.Module.Mod.Path, cleanPath)
	return modFile.Module.Mod.Path, nil
}

// FindGoModFile searches for go.mod starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found above %s", startDir)
}

// ImportPathForDir derives the import path of the package in dir from the
// nearest enclosing go.mod
func (p *GoModParser) ImportPathForDir(dir string) (string, error) {
	goModPath, err := p.FindGoModFile(dir)
	if err != nil {
		return "", err
	}

	modulePath, err := p.ParseModuleName(goModPath)
	if err != nil {
		return "", err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(filepath.Dir(goModPath), absDir)
	if err != nil {
		return "", err
	}
	return JoinImportPath(modulePath, rel), nil
}

// JoinImportPath appends a slash- or OS-separated relative directory to a module path
func JoinImportPath(modulePath, relDir string) string {
	relDir = filepath.ToSlash(relDir)
	if relDir == "." || relDir == "" {
		return modulePath
	}
	return path.Join(modulePath, strings.TrimPrefix(relDir, "./"))
}
