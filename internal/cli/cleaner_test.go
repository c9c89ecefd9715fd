package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := newApp(t)
	generated := "// Code generated by arrow. DO NOT EDIT.\n\npackage core\n"
	writeTree(t, root, map[string]string{
		"autogen_dependencies.go":        "// Code generated by arrow. DO NOT EDIT.\n\npackage app\n",
		"core/autogen_dependencies.go":   generated,
		"web/autogen_dependencies.go":    "package web\n\n// hand written\n",
		"vendor/autogen_dependencies.go": generated,
	})

	removed, err := NewCleaner("", nil).CleanGeneratedFiles([]string{filepath.Join(root, "...")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "autogen_dependencies.go"),
		filepath.Join(root, "core", "autogen_dependencies.go"),
	}, removed)

	assert.NoFileExists(t, filepath.Join(root, "core", "autogen_dependencies.go"))
	assert.FileExists(t, filepath.Join(root, "web", "autogen_dependencies.go"))
	assert.FileExists(t, filepath.Join(root, "vendor", "autogen_dependencies.go"))

	removed, err = NewCleaner("", nil).CleanGeneratedFiles([]string{filepath.Join(root, "...")})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCleaner_CustomFileName(t *testing.T) {
	root := newApp(t)
	writeTree(t, root, map[string]string{
		"core/wiring.go": "// Code generated by arrow. DO NOT EDIT.\n\npackage core\n",
	})

	removed, err := NewCleaner("wiring.go", nil).CleanGeneratedFiles([]string{filepath.Join(root, "core")})
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	_, err = os.Stat(filepath.Join(root, "core", "core.go"))
	assert.NoError(t, err)
}

func TestCleaner_MissingDirectory(t *testing.T) {
	_, err := NewCleaner("", nil).CleanGeneratedFiles([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
