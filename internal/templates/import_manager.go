package templates

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/toyz/arrow/internal/models"
)

// ImportManager collects the imports of a generated file. A path keeps the
// first qualifier it was given; a qualifier already held by another path is
// numbered (rand, rand2).
type ImportManager struct {
	byName map[string]string // qualifier -> path
	byPath map[string]string // path -> qualifier
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		byName: make(map[string]string),
		byPath: make(map[string]string),
	}
}

// Add records an import and returns the qualifier the generated file uses
// for its path. Imports without a name or path are ignored.
func (im *ImportManager) Add(imp models.Import) string {
	if imp.Name == "" || imp.Path == "" {
		return imp.Name
	}
	if name, ok := im.byPath[imp.Path]; ok {
		return name
	}

	name := imp.Name
	for i := 2; im.byName[name] != ""; i++ {
		name = fmt.Sprintf("%s%d", imp.Name, i)
	}
	im.byName[name] = imp.Path
	im.byPath[imp.Path] = name
	return name
}

// Names returns the set of qualifiers in use
func (im *ImportManager) Names() map[string]bool {
	names := make(map[string]bool, len(im.byName))
	for name := range im.byName {
		names[name] = true
	}
	return names
}

// NameOf returns the qualifier recorded for an import path
func (im *ImportManager) NameOf(importPath string) (string, bool) {
	name, ok := im.byPath[importPath]
	return name, ok
}

// Imports returns the recorded imports sorted by path
func (im *ImportManager) Imports() []models.Import {
	result := make([]models.Import, 0, len(im.byPath))
	for p, name := range im.byPath {
		result = append(result, models.Import{Name: name, Path: p})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// GenerateImports renders the import block. The alias is written only when
// it differs from the last path element.
func (im *ImportManager) GenerateImports() string {
	imports := im.Imports()
	if len(imports) == 0 {
		return ""
	}

	lines := make([]string, 0, len(imports))
	for _, imp := range imports {
		lines = append(lines, ImportSpec(imp))
	}

	if len(lines) == 1 {
		return fmt.Sprintf("import %s\n", lines[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, line := range lines {
		result.WriteString("\t" + line + "\n")
	}
	result.WriteString(")\n")
	return result.String()
}

// ImportSpec renders one import line without the import keyword
func ImportSpec(imp models.Import) string {
	if path.Base(imp.Path) == imp.Name {
		return fmt.Sprintf("%q", imp.Path)
	}
	return fmt.Sprintf("%s %q", imp.Name, imp.Path)
}
