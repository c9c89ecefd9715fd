package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	arrowerrors "github.com/toyz/arrow/internal/errors"
)

// DirectoryScanner finds the Go files arrow reads
type DirectoryScanner struct {
	exclude    []string
	outputFile string
}

// NewDirectoryScanner creates a scanner skipping the generated file and exclude globs
func NewDirectoryScanner(outputFile string, exclude []string) *DirectoryScanner {
	return &DirectoryScanner{exclude: exclude, outputFile: outputFile}
}

// root is one argument with its "/..." suffix split off
type root struct {
	dir       string
	recursive bool
}

func splitPattern(pattern string) root {
	if pattern == "..." {
		return root{dir: ".", recursive: true}
	}
	if base, ok := strings.CutSuffix(filepath.ToSlash(pattern), "/..."); ok {
		if base == "" || base == "." {
			base = "."
		}
		return root{dir: filepath.FromSlash(base), recursive: true}
	}
	return root{dir: pattern}
}

// RootDir returns the directory part of a scan pattern
func RootDir(pattern string) string {
	return filepath.Clean(splitPattern(pattern).dir)
}

// ScanDirectories returns every directory the patterns cover, sorted.
// Go-style patterns like "./..." recurse; hidden, underscore, vendor and
// testdata directories are never entered.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var dirs []string
	err := s.walk(patterns, func(dir string) error {
		dirs = append(dirs, dir)
		return nil
	})
	if err != nil {
		return nil, err
	}
	dirs = lo.Uniq(dirs)
	sort.Strings(dirs)
	return dirs, nil
}

// ScanFiles returns the non-test Go source files of every covered directory, sorted
func (s *DirectoryScanner) ScanFiles(patterns []string) ([]string, error) {
	var files []string
	err := s.walk(patterns, func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return arrowerrors.WrapFileSystemError("read directory", dir, err)
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if !entry.IsDir() && s.IsSource(path) {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	files = lo.Uniq(files)
	sort.Strings(files)
	return files, nil
}

// IsSource reports whether path is a Go file arrow parses
func (s *DirectoryScanner) IsSource(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	if name == s.outputFile {
		return false
	}
	return !s.excluded(path)
}

func (s *DirectoryScanner) walk(patterns []string, visit func(dir string) error) error {
	for _, pattern := range patterns {
		r := splitPattern(pattern)
		dir := filepath.Clean(r.dir)

		info, err := os.Stat(dir)
		if err != nil {
			return arrowerrors.WrapFileSystemError("scan", dir, err)
		}
		if !info.IsDir() {
			fsErr := arrowerrors.NewFileSystemError("scan", dir, fs.ErrInvalid)
			fsErr.WithSuggestion("Pass package directories, not files")
			return fsErr
		}

		if !r.recursive {
			if err := visit(dir); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return arrowerrors.WrapFileSystemError("scan", path, err)
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && (skipDir(d.Name()) || s.excluded(path)) {
				return filepath.SkipDir
			}
			return visit(path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// skipDir follows the go tool: these directories are never part of ./...
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

// excluded matches exclude globs against the base name and the slash path
func (s *DirectoryScanner) excluded(path string) bool {
	slashed := filepath.ToSlash(filepath.Clean(path))
	base := filepath.Base(path)
	return lo.SomeBy(s.exclude, func(pattern string) bool {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		ok, _ := filepath.Match(pattern, slashed)
		return ok
	})
}
