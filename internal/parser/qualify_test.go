package parser

import (
	goparser "go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/arrow/internal/models"
)

func testScope(t *testing.T, src string) *fileScope {
	t.Helper()
	file, err := goparser.ParseFile(newStaticParser("x").reader.FileSet(), "scope.go", src, goparser.ImportsOnly)
	require.NoError(t, err)
	return newFileScope(file, models.Import{Name: "core", Path: "example.com/app/core"}, map[string]string{"example.com/app/pg": "postgres"})
}

func TestTypeText(t *testing.T) {
	scope := testScope(t, `package core

import (
	ctxpkg "context"
	_ "embed"
	. "strings"
	"github.com/go-chi/chi/v5"
)
`)

	tests := map[string]string{
		"Logger":                        "core.Logger",
		"*Logger":                       "*core.Logger",
		"[]error":                       "[]error",
		"map[string]any":                "map[string]any",
		"ctxpkg.Context":                "context.Context",
		"*chi.Mux":                      "*chi.Mux",
		"unknown.Thing":                 "unknown.Thing",
		"Builder":                       "core.Builder",
		"List[Item]":                    "core.List[core.Item]",
		"func(c ctxpkg.Context) Result": "func(c context.Context) core.Result",
		"[4]Item":                       "[4]core.Item",
	}

	for input, want := range tests {
		expr, err := goparser.ParseExpr(input)
		require.NoError(t, err, input)

		got, err := scope.TypeText(expr)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestTypeText_DoesNotMutateInput(t *testing.T) {
	scope := testScope(t, "package core\n")
	expr, err := goparser.ParseExpr("*Logger")
	require.NoError(t, err)

	first, err := scope.TypeText(expr)
	require.NoError(t, err)
	second, err := scope.TypeText(expr)
	require.NoError(t, err)

	assert.Equal(t, "*core.Logger", first)
	assert.Equal(t, first, second)
}

func TestExprText(t *testing.T) {
	scope := testScope(t, `package core

import tm "time"
`)

	tests := map[string]string{
		`"localhost"`:         `"localhost"`,
		"8080":                "8080",
		"true":                "true",
		"nil":                 "nil",
		"DefaultPort":         "core.DefaultPort",
		"tm.Second*5":         "time.Second * 5",
		"Config{Port: 8080}":  "core.Config{Port: 8080}",
		"[]string{local}":     "[]string{local}",
		"NewClient(tm.Now())": "core.NewClient(time.Now())",
	}

	for input, want := range tests {
		got, err := scope.ExprText(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := scope.ExprText("func {")
	assert.Error(t, err)
}

func TestFileScope_UsedImports(t *testing.T) {
	scope := testScope(t, `package core

import (
	"time"
	"net/http"

	"example.com/app/pg"
)
`)
	core := models.Import{Name: "core", Path: "example.com/app/core"}
	assert.Equal(t, []models.Import{core}, scope.usedImports())

	expr, err := goparser.ParseExpr("func(*postgres.DB) Config")
	require.NoError(t, err)
	got, err := scope.TypeText(expr)
	require.NoError(t, err)
	assert.Equal(t, "func(*postgres.DB) core.Config", got)

	_, err = scope.ExprText("time.Second")
	require.NoError(t, err)

	assert.Equal(t, []models.Import{
		core,
		{Name: "postgres", Path: "example.com/app/pg"},
		{Name: "time", Path: "time"},
	}, scope.usedImports())

	scope.reset()
	assert.Equal(t, []models.Import{core}, scope.usedImports())
}
