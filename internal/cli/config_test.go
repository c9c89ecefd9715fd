package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arrowerrors "github.com/toyz/arrow/internal/errors"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		DefaultConfigFile: `module: example.com/override
output:
  dir: internal/wiring
  package: wiring
strict: true
exclude:
  - "*_mock.go"
  - legacy
`,
	})

	path, ok := FindConfig(dir)
	require.True(t, ok)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/override", cfg.Module)
	assert.Equal(t, "internal/wiring", cfg.Output.Dir)
	assert.Equal(t, "wiring", cfg.Output.Package)
	assert.Equal(t, "autogen_dependencies.go", cfg.Output.File)
	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{"*_mock.go", "legacy"}, cfg.Exclude)
}

func TestLoadConfig_Empty(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{DefaultConfigFile: ""})

	cfg, err := LoadConfig(filepath.Join(dir, DefaultConfigFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "unknown key", content: "modul: x\n"},
		{name: "bad yaml", content: "output: [\n"},
		{name: "file with directory", content: "output:\n  file: gen/wiring.go\n", field: "output.file"},
		{name: "test file", content: "output:\n  file: wiring_test.go\n", field: "output.file"},
		{name: "not go", content: "output:\n  file: wiring.txt\n", field: "output.file"},
		{name: "bad package", content: "output:\n  package: my-pkg\n", field: "output.package"},
		{name: "keyword package", content: "output:\n  package: func\n", field: "output.package"},
		{name: "bad glob", content: "exclude: ['[']\n", field: "exclude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, map[string]string{DefaultConfigFile: tt.content})

			_, err := LoadConfig(filepath.Join(dir, DefaultConfigFile))
			var cfgErr *arrowerrors.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			if tt.field != "" {
				assert.Equal(t, tt.field, cfgErr.Field)
			}
		})
	}
}

func TestFindConfig_Missing(t *testing.T) {
	_, ok := FindConfig(t.TempDir())
	assert.False(t, ok)

	_, err := LoadConfig(filepath.Join(t.TempDir(), DefaultConfigFile))
	assert.Error(t, err)
}
