package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/utils"
)

func TestModuleResolver_FromGoMod(t *testing.T) {
	root := newApp(t)
	resolver := NewModuleResolver(utils.NewFileReader(), "")

	name, err := resolver.ResolveModuleName(filepath.Join(root, "core"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", name)

	tests := map[string]string{
		root:                                    "example.com/app",
		filepath.Join(root, "core"):             "example.com/app/core",
		filepath.Join(root, "internal", "empty"): "example.com/app/internal/empty",
	}
	for dir, want := range tests {
		got, err := resolver.ImportPathForDir(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestModuleResolver_Override(t *testing.T) {
	root := newApp(t)
	resolver := NewModuleResolver(utils.NewFileReader(), "github.com/custom/module")

	name, err := resolver.ResolveModuleName(root)
	require.NoError(t, err)
	assert.Equal(t, "github.com/custom/module", name)

	path, err := resolver.ImportPathForDir(filepath.Join(root, "web"))
	require.NoError(t, err)
	assert.Equal(t, "github.com/custom/module/web", path)
}

func TestModuleResolver_NoGoMod(t *testing.T) {
	resolver := NewModuleResolver(utils.NewFileReader(), "")

	// a temp dir normally has no go.mod above it
	dir := t.TempDir()
	if _, err := utils.NewGoModParser(utils.NewFileReader()).FindGoModFile(dir); err == nil {
		t.Skip("temp dir is inside a Go module")
	}

	_, err := resolver.ImportPathForDir(dir)
	var cfgErr *arrowerrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.NotEmpty(t, cfgErr.Suggestions())
}
