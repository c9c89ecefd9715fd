package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arrowerrors "github.com/toyz/arrow/internal/errors"
)

func TestDirectoryScanner_ScanFiles(t *testing.T) {
	root := newApp(t)
	writeTree(t, root, map[string]string{
		"core/autogen_dependencies.go": "package core\n",
		"web/mock_gen.go":              "package web\n",
	})

	scanner := NewDirectoryScanner("autogen_dependencies.go", []string{"mock_*.go"})

	files, err := scanner.ScanFiles([]string{filepath.Join(root, "...")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "core", "core.go"),
		filepath.Join(root, "web", "web.go"),
	}, files)

	t.Run("single directory does not recurse", func(t *testing.T) {
		files, err := scanner.ScanFiles([]string{root})
		require.NoError(t, err)
		assert.Empty(t, files)

		files, err = scanner.ScanFiles([]string{filepath.Join(root, "web")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "web", "web.go")}, files)
	})

	t.Run("overlapping patterns are deduplicated", func(t *testing.T) {
		files, err := scanner.ScanFiles([]string{filepath.Join(root, "core"), filepath.Join(root, "...")})
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})
}

func TestDirectoryScanner_ScanDirectories(t *testing.T) {
	root := newApp(t)
	scanner := NewDirectoryScanner("autogen_dependencies.go", []string{"docs"})

	dirs, err := scanner.ScanDirectories([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "core"),
		filepath.Join(root, "internal"),
		filepath.Join(root, "internal", "empty"),
		filepath.Join(root, "web"),
	}, dirs)
}

func TestDirectoryScanner_Errors(t *testing.T) {
	root := newApp(t)
	scanner := NewDirectoryScanner("autogen_dependencies.go", nil)

	_, err := scanner.ScanFiles([]string{filepath.Join(root, "missing")})
	var fsErr *arrowerrors.FileSystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "scan", fsErr.Operation)

	_, err = scanner.ScanFiles([]string{filepath.Join(root, "go.mod")})
	assert.True(t, errors.As(err, &fsErr))
}

func TestDirectoryScanner_IsSource(t *testing.T) {
	scanner := NewDirectoryScanner("wiring.go", []string{"internal/legacy/*"})

	tests := []struct {
		path string
		want bool
	}{
		{"pkg/a.go", true},
		{"pkg/a_test.go", false},
		{"pkg/wiring.go", false},
		{"pkg/a.txt", false},
		{"internal/legacy/old.go", false},
		{"internal/current/new.go", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, scanner.IsSource(filepath.FromSlash(tt.path)))
		})
	}
}

func TestRootDir(t *testing.T) {
	assert.Equal(t, ".", RootDir("./..."))
	assert.Equal(t, ".", RootDir("..."))
	assert.Equal(t, filepath.FromSlash("internal/app"), RootDir("./internal/app/..."))
	assert.Equal(t, "pkg", RootDir("pkg"))
}
