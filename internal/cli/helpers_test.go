package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files relative to root, making parent directories as needed
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

const appGoMod = "module example.com/app\n\ngo 1.25\n"

const coreSource = `package core

import (
	"time"

	"github.com/toyz/arrow/pkg/arrow"
)

type Config struct{ Port int }

type Server struct {
	cfg     Config
	timeout time.Duration
}

type CoreModule struct {
	arrow.SingletonScope
}

func (CoreModule) Config() Config { return Config{Port: 8080} }

//arrow::default timeout=` + "`time.Second * 5`" + `
func (CoreModule) Server(cfg Config, timeout time.Duration) (*Server, error) {
	return &Server{cfg: cfg, timeout: timeout}, nil
}
`

const handlerSource = `package web

import (
	"example.com/app/core"
	"github.com/toyz/arrow/pkg/arrow"
)

type Handler struct{ srv *core.Server }

type WebModule struct {
	arrow.TransientScope
}

func (WebModule) Handler(srv *core.Server) *Handler { return &Handler{srv: srv} }
`

// newApp lays out a two-package module and returns its root
func newApp(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":             appGoMod,
		"core/core.go":       coreSource,
		"core/core_test.go":  "package core\n\nfunc broken( {\n",
		"web/web.go":         handlerSource,
		"testdata/bad.go":    "package bad\n\nfunc {\n",
		".hidden/hidden.go":  "package hidden\n",
		"_scratch/notes.go":  "package scratch\n",
		"vendor/dep/dep.go":  "package dep\n",
		"docs/README.md":     "# app\n",
		"internal/empty/.gk": "",
	})
	return root
}
