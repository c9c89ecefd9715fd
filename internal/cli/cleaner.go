package cli

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/generator"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner  *DirectoryScanner
	fileName string
}

// NewCleaner creates a cleaner removing fileName, autogen_dependencies.go when empty
func NewCleaner(fileName string, exclude []string) *Cleaner {
	if fileName == "" {
		fileName = generator.DefaultFileName
	}
	return &Cleaner{
		scanner:  NewDirectoryScanner(fileName, exclude),
		fileName: fileName,
	}
}

// CleanGeneratedFiles removes the generated file from every directory the
// patterns cover and returns the removed paths. Files with that name that
// arrow did not write are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	dirs, err := c.scanner.ScanDirectories(patterns)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, dir := range dirs {
		path := filepath.Join(dir, c.fileName)
		ok, err := isGenerated(path)
		if err != nil {
			return removed, err
		}
		if !ok {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, arrowerrors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// isGenerated reports whether path exists and starts with the arrow header
func isGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, arrowerrors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.TrimSpace(line) == generator.GeneratedHeader, nil
}
