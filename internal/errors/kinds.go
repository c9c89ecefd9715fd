package errors

import "fmt"

// SyntaxError is returned when a Go source file cannot be parsed
type SyntaxError struct {
	*BaseError
	Path string
}

// NewSyntaxError creates a syntax error for the given file
func NewSyntaxError(path string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse Go file '%s'", path), cause).
			WithContext("path", path).
			WithSuggestion("Fix the Go syntax error; arrow only reads files that gofmt accepts"),
		Path: path,
	}
}

// FileSystemError is returned when a file or directory cannot be read or written
type FileSystemError struct {
	*BaseError
	Operation string
	Path      string
}

// NewFileSystemError creates a file system error
func NewFileSystemError(operation, path string, cause error) *FileSystemError {
	return &FileSystemError{
		BaseError: Wrap(FileSystemErrorCode, fmt.Sprintf("failed to %s '%s'", operation, path), cause).
			WithContext("operation", operation).
			WithContext("path", path),
		Operation: operation,
		Path:      path,
	}
}

// SchemaError describes an annotation that does not match its schema.
// The extractor treats these as parse-skips, they are only surfaced in debug output.
type SchemaError struct {
	*BaseError
	Annotation string
	Parameter  string
}

// NewSchemaError creates an annotation schema error
func NewSchemaError(annotation, message string) *SchemaError {
	return &SchemaError{
		BaseError:  New(SchemaErrorCode, fmt.Sprintf("invalid %s annotation: %s", annotation, message)),
		Annotation: annotation,
	}
}

// WithParameter records the offending annotation parameter
func (e *SchemaError) WithParameter(name string) *SchemaError {
	e.Parameter = name
	e.WithContext("parameter", name)
	return e
}

// GenerationError represents an error during code generation
type GenerationError struct {
	*BaseError
	TargetFile string
	Stage      string // render, format, rewrite, write
}

// NewGenerationError creates a new generation error
func NewGenerationError(stage, message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message).WithContext("stage", stage),
		Stage:     stage,
	}
}

// WithTargetFile sets the target file
func (e *GenerationError) WithTargetFile(targetFile string) *GenerationError {
	e.TargetFile = targetFile
	e.WithContext("target", targetFile)
	return e
}

// ConfigurationError represents an invalid or unreadable configuration
type ConfigurationError struct {
	*BaseError
	Field string
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{
		BaseError: New(ConfigurationErrorCode, fmt.Sprintf("invalid configuration '%s': %s", field, message)),
		Field:     field,
	}
}
