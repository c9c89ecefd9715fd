package internal

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/arrow/internal/generator"
	"github.com/toyz/arrow/internal/graph"
	"github.com/toyz/arrow/internal/models"
	"github.com/toyz/arrow/internal/parser"
	"github.com/toyz/arrow/internal/utils"
)

// TestPipeline runs extraction, ordering and generation over a small
// multi-package project
func TestPipeline(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"db/db.go": `package db

import "github.com/toyz/arrow/pkg/arrow"

type Pool struct{ dsn string }

type DBModule struct{ arrow.SingletonScope }

//arrow::name primary
//arrow::default dsn="postgres://localhost/app"
func (DBModule) Primary(dsn string) (*Pool, error) { return &Pool{dsn: dsn}, nil }
`,
		"users/users.go": `package users

import (
	"example.com/app/db"
	"github.com/toyz/arrow/pkg/arrow"
)

type Repo struct{ pool *db.Pool }
type Service struct{ repo *Repo }

type UsersModule struct{ arrow.TransientScope }

func (UsersModule) Service(repo *Repo) *Service { return &Service{repo: repo} }

//arrow::named pool=primary
//arrow::scope singleton
func (UsersModule) Repo(pool *db.Pool) *Repo { return &Repo{pool: pool} }
`,
	}

	var paths []string
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}

	p := parser.NewParser(parser.WithImportPathResolver(parser.StaticImportPaths{
		filepath.Join(root, "db"):    "example.com/app/db",
		filepath.Join(root, "users"): "example.com/app/users",
	}))
	result, err := p.Parse(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, result.Modules, 2)

	order, report, err := graph.Resolve(result.Declarations, graph.Options{Strict: true})
	require.NoError(t, err)
	assert.False(t, report.HasIssues())

	keys := make([]string, len(order))
	for i, d := range order {
		keys[i] = d.Key()
	}
	assert.Equal(t, []string{"primary", "*users.Repo", "*users.Service"}, keys)

	file, err := generator.NewGenerator().Generate(order, models.Target{
		PackageName: "wiring",
		ImportPath:  "example.com/app/wiring",
		Dir:         filepath.Join(root, "wiring"),
	})
	require.NoError(t, err)
	require.NoError(t, utils.ValidateGoCode([]byte(file.Content)))

	content := file.Content
	assert.Contains(t, content, `return dbModule.Primary("postgres://localhost/app")`)
	assert.Contains(t, content, `}, arrow.Named("primary")); err != nil {`)
	assert.Contains(t, content, `return usersModule.Repo(arrow.Resolve[*db.Pool](r, arrow.Named("primary"))), nil`)
	assert.Contains(t, content, "arrow.Register(c, arrow.Singleton, func(r *arrow.Container) (*users.Repo, error) {")
	assert.Contains(t, content, "arrow.Register(c, arrow.Transient, func(r *arrow.Container) (*users.Service, error) {")
}

func writeSources(t *testing.T, root string, files map[string]string) []string {
	t.Helper()
	var paths []string
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestPipeline_UnrelatedImportsShareName(t *testing.T) {
	root := t.TempDir()
	paths := writeSources(t, root, map[string]string{
		"tokens/tokens.go": `package tokens

import (
	"crypto/rand"

	"github.com/toyz/arrow/pkg/arrow"
)

type Source struct{}

type TokensModule struct{ arrow.SingletonScope }

func (TokensModule) Source() *Source { _ = rand.Reader; return &Source{} }
`,
		"jitter/jitter.go": `package jitter

import (
	"math/rand"

	"example.com/app/tokens"
	"github.com/toyz/arrow/pkg/arrow"
)

type Jitter struct{ r *rand.Rand }

type JitterModule struct{ arrow.SingletonScope }

func (JitterModule) Jitter(src *tokens.Source) *Jitter { return &Jitter{} }
`,
	})

	p := parser.NewParser(parser.WithImportPathResolver(parser.StaticImportPaths{
		filepath.Join(root, "tokens"): "example.com/app/tokens",
		filepath.Join(root, "jitter"): "example.com/app/jitter",
	}))
	result, err := p.Parse(context.Background(), paths)
	require.NoError(t, err)

	order, _, err := graph.Resolve(result.Declarations, graph.Options{Strict: true})
	require.NoError(t, err)

	file, err := generator.NewGenerator().Generate(order, models.Target{PackageName: "wiring", ImportPath: "example.com/app/wiring"})
	require.NoError(t, err)
	require.NoError(t, utils.ValidateGoCode([]byte(file.Content)))
	assert.NotContains(t, file.Content, "rand")
	assert.Contains(t, file.Content, "return jitterModule.Jitter(arrow.Resolve[*tokens.Source](r)), nil")
}

func TestPipeline_PackageClauseDiffersFromDirectory(t *testing.T) {
	root := t.TempDir()
	paths := writeSources(t, root, map[string]string{
		"pg/db.go": `package postgres

import "github.com/toyz/arrow/pkg/arrow"

type DB struct{}

type StoreModule struct{ arrow.SingletonScope }

func (StoreModule) DB() *DB { return &DB{} }
`,
		"users/users.go": `package users

import (
	"example.com/app/pg"
	"github.com/toyz/arrow/pkg/arrow"
)

type Repo struct{}

type UsersModule struct{ arrow.SingletonScope }

func (UsersModule) Repo(db *postgres.DB) *Repo { return &Repo{} }
`,
	})

	p := parser.NewParser(parser.WithImportPathResolver(parser.StaticImportPaths{
		filepath.Join(root, "pg"):    "example.com/app/pg",
		filepath.Join(root, "users"): "example.com/app/users",
	}))
	result, err := p.Parse(context.Background(), paths)
	require.NoError(t, err)

	order, _, err := graph.Resolve(result.Declarations, graph.Options{Strict: true})
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, "*postgres.DB", order[0].Key())

	file, err := generator.NewGenerator().Generate(order, models.Target{PackageName: "wiring", ImportPath: "example.com/app/wiring"})
	require.NoError(t, err)
	require.NoError(t, utils.ValidateGoCode([]byte(file.Content)))
	assert.Contains(t, file.Content, `postgres "example.com/app/pg"`)
	assert.Contains(t, file.Content, "storeModule := &postgres.StoreModule{}")
	assert.Contains(t, file.Content, "return usersModule.Repo(arrow.Resolve[*postgres.DB](r)), nil")
}

// chainSource declares providers T0 <- T1 <- ... <- Tn-1 in a shuffled order
func chainSource(n int, seed int64) string {
	var b strings.Builder
	b.WriteString("package app\n\nimport \"github.com/toyz/arrow/pkg/arrow\"\n\n")
	b.WriteString("type AppModule struct{ arrow.SingletonScope }\n\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "type T%d struct{}\n", i)
	}

	for _, i := range rand.New(rand.NewSource(seed)).Perm(n) {
		if i == 0 {
			b.WriteString("\nfunc (AppModule) Make0() T0 { return T0{} }\n")
			continue
		}
		fmt.Fprintf(&b, "\nfunc (AppModule) Make%d(dep T%d) T%d { return T%d{} }\n", i, i-1, i, i)
	}
	return b.String()
}

func TestPipeline_ShuffledChainProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	p := parser.NewParser(parser.WithImportPathResolver(parser.StaticImportPaths{"*": "example.com/app"}))
	target := models.Target{PackageName: "wiring", ImportPath: "example.com/app/wiring"}

	properties.Property("declaration order never changes registration order", prop.ForAll(
		func(n int, seed int64) bool {
			decls, err := p.ParseSource("/src/app/app.go", chainSource(n, seed))
			if err != nil || len(decls) != n {
				return false
			}
			order, _, err := graph.Resolve(decls, graph.Options{Strict: true})
			if err != nil {
				return false
			}
			file, err := generator.NewGenerator().Generate(order, target)
			if err != nil {
				return false
			}

			last := -1
			for i := 0; i < n; i++ {
				at := strings.Index(file.Content, fmt.Sprintf("(app.T%d, error)", i))
				if at <= last {
					return false
				}
				last = at
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
