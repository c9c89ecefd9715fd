package cli

import (
	"bytes"
	"errors"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/generator"
)

// DefaultConfigFile is looked up in the working directory when no --config is given
const DefaultConfigFile = "arrow.yaml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Module overrides the module path read from go.mod
	Module string `yaml:"module"`

	Output OutputConfig `yaml:"output"`

	// Strict turns unresolved dependencies and duplicate keys into errors
	Strict bool `yaml:"strict"`

	// Exclude lists glob patterns of files and directories that are never scanned
	Exclude []string `yaml:"exclude"`

	// Directories is the list of directories to scan for modules
	Directories []string `yaml:"-"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"-"`
}

// OutputConfig controls where the wiring file is written
type OutputConfig struct {
	// Dir defaults to the first scanned directory
	Dir string `yaml:"dir"`
	// Package defaults to the package already living in Dir
	Package string `yaml:"package"`
	File    string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{File: generator.DefaultFileName},
	}
}

// FindConfig returns the path of arrow.yaml in dir, if there is one
func FindConfig(dir string) (string, bool) {
	path := filepath.Join(dir, DefaultConfigFile)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// LoadConfig reads a YAML configuration file on top of the defaults.
// Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, arrowerrors.WrapConfigurationError(path, "read", err)
	}

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, arrowerrors.WrapConfigurationError(path, "parse", err)
	}
	if cfg.Output.File == "" {
		cfg.Output.File = generator.DefaultFileName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a run cannot start without
func (c *Config) Validate() error {
	file := c.Output.File
	switch {
	case file == "":
		return arrowerrors.NewConfigurationError("output.file", "must not be empty")
	case filepath.Base(file) != file:
		return arrowerrors.NewConfigurationError("output.file", "must be a file name, use output.dir for the directory")
	case !strings.HasSuffix(file, ".go") || strings.HasSuffix(file, "_test.go"):
		return arrowerrors.NewConfigurationError("output.file", "must be a non-test .go file")
	}

	if c.Output.Package != "" && (!token.IsIdentifier(c.Output.Package) || token.IsKeyword(c.Output.Package)) {
		return arrowerrors.NewConfigurationError("output.package", c.Output.Package+" is not a valid package name")
	}

	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return arrowerrors.NewConfigurationError("exclude", "bad pattern "+pattern)
		}
	}
	return nil
}
