package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/graph"
	"github.com/toyz/arrow/internal/models"
	"github.com/toyz/arrow/internal/utils"
)

func newTestGenerator(t *testing.T, cfg *Config) (*Generator, *DiagnosticReporter) {
	t.Helper()
	reporter, _, _ := newTestReporter(false)
	return NewGenerator(cfg, WithReporter(reporter), WithLogger(zerolog.New(zerolog.NewTestWriter(t)))), reporter
}

func TestGenerator_Run(t *testing.T) {
	root := newApp(t)
	cfg := DefaultConfig()
	cfg.Directories = []string{filepath.Join(root, "...")}
	g, _ := newTestGenerator(t, cfg)

	file, err := g.Run(context.Background())
	require.NoError(t, err)

	outPath := filepath.Join(root, "autogen_dependencies.go")
	assert.Equal(t, outPath, file.FilePath)
	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, file.Content, string(written))
	assert.NoError(t, utils.ValidateGoCode(written))

	content := file.Content
	assert.Contains(t, content, "package app\n")
	assert.Contains(t, content, "\"example.com/app/core\"")
	assert.Contains(t, content, "coreModule := &core.CoreModule{}")
	assert.Contains(t, content, "webModule := &web.WebModule{}")
	assert.Contains(t, content, "return coreModule.Server(arrow.Resolve[core.Config](r), time.Second*5)")
	assert.Contains(t, content, "arrow.Register(c, arrow.Transient, func(r *arrow.Container) (*web.Handler, error) {")
	assert.Contains(t, content, "return webModule.Handler(arrow.Resolve[*core.Server](r)), nil")

	summary := g.Summary()
	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 2, summary.PackagesProcessed)
	assert.Equal(t, 2, summary.ModulesFound)
	assert.Equal(t, 3, summary.ProvidersFound)
	assert.False(t, summary.Unchanged)

	// a second run produces the same bytes and leaves the file alone
	info, err := os.Stat(outPath)
	require.NoError(t, err)
	again, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, file.Content, again.Content)
	assert.True(t, g.Summary().Unchanged)
	after, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestGenerator_Plan(t *testing.T) {
	root := newApp(t)
	cfg := DefaultConfig()
	cfg.Directories = []string{filepath.Join(root, "web"), filepath.Join(root, "core")}
	g, _ := newTestGenerator(t, cfg)

	plan, err := g.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Config", "Server", "Handler"}, lo.Map(plan.Order, func(d models.Declaration, _ int) string {
		return d.MemberName
	}))
	assert.Equal(t, models.Target{
		PackageName: "web",
		ImportPath:  "example.com/app/web",
		Dir:         filepath.Join(root, "web"),
		FileName:    "autogen_dependencies.go",
	}, plan.Target)
	assert.False(t, plan.Report.HasIssues())
	assert.NoFileExists(t, filepath.Join(root, "web", "autogen_dependencies.go"))
}

func TestGenerator_OutputOverrides(t *testing.T) {
	root := newApp(t)

	t.Run("new directory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Directories = []string{root + "/..."}
		cfg.Output.Dir = filepath.Join(root, "internal", "wiring")
		g, _ := newTestGenerator(t, cfg)

		file, err := g.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "wiring", file.PackageName)
		assert.FileExists(t, filepath.Join(root, "internal", "wiring", "autogen_dependencies.go"))
	})

	t.Run("module package", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Directories = []string{root + "/..."}
		cfg.Output.Dir = filepath.Join(root, "core")
		cfg.Output.File = "wiring.go"
		g, _ := newTestGenerator(t, cfg)

		file, err := g.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "core", file.PackageName)
		assert.Contains(t, file.Content, "coreModule := &CoreModule{}")
		assert.NotContains(t, file.Content, "\"example.com/app/core\"")

		// the generated file is not read back on the next run
		_, err = g.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, g.Summary().ProvidersFound)
	})
}

func TestGenerator_UnresolvedDependencies(t *testing.T) {
	root := newApp(t)
	writeTree(t, root, map[string]string{
		"store/store.go": `package store

import (
	"database/sql"

	"github.com/toyz/arrow/pkg/arrow"
)

type Repo struct{}

type StoreModule struct{ arrow.SingletonScope }

func (StoreModule) Repo(db *sql.DB) *Repo { return &Repo{} }
`,
	})

	cfg := DefaultConfig()
	cfg.Directories = []string{root + "/..."}
	reporter, _, errOut := newTestReporter(false)
	g := NewGenerator(cfg, WithReporter(reporter))

	_, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, g.Summary().Unresolved)
	assert.Contains(t, errOut.String(), "no provider for *sql.DB (required by StoreModule.Repo)")

	cfg.Strict = true
	strict, _ := newTestGenerator(t, cfg)
	_, err = strict.Run(context.Background())
	var unresolved *graph.UnresolvedError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "*sql.DB", unresolved.Missing[0].Key)
	assert.Equal(t, []string{"StoreModule.Repo"}, unresolved.Missing[0].RequiredBy)
}

func TestGenerator_Errors(t *testing.T) {
	t.Run("no directories", func(t *testing.T) {
		g, _ := newTestGenerator(t, DefaultConfig())
		_, err := g.Run(context.Background())
		var cfgErr *arrowerrors.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("syntax error", func(t *testing.T) {
		root := newApp(t)
		writeTree(t, root, map[string]string{"web/broken.go": "package web\n\nfunc {\n"})

		cfg := DefaultConfig()
		cfg.Directories = []string{root + "/..."}
		g, _ := newTestGenerator(t, cfg)
		_, err := g.Run(context.Background())
		var syntaxErr *arrowerrors.SyntaxError
		assert.True(t, errors.As(err, &syntaxErr))
		assert.NoFileExists(t, filepath.Join(root, "autogen_dependencies.go"))
	})

	t.Run("excluded broken file", func(t *testing.T) {
		root := newApp(t)
		writeTree(t, root, map[string]string{"web/broken.go": "package web\n\nfunc {\n"})

		cfg := DefaultConfig()
		cfg.Directories = []string{root + "/..."}
		cfg.Exclude = []string{"broken.go"}
		g, _ := newTestGenerator(t, cfg)
		_, err := g.Run(context.Background())
		assert.NoError(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		root := newApp(t)
		cfg := DefaultConfig()
		cfg.Directories = []string{root + "/..."}
		g, _ := newTestGenerator(t, cfg)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := g.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.go")

	changed, err := writeFileAtomic(path, []byte("package out\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = writeFileAtomic(path, []byte("package out\n"))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = writeFileAtomic(path, []byte("package out2\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
