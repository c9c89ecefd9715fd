package errors

import "fmt"

// Common error wrapping patterns used throughout the generator

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *FileSystemError {
	return NewFileSystemError(operation, path, cause)
}

// WrapParseError wraps a go/parser failure for a file
func WrapParseError(path string, cause error) *SyntaxError {
	return NewSyntaxError(path, cause)
}

// WrapGenerateError wraps an error raised while producing a generated file
func WrapGenerateError(stage, target string, cause error) *GenerationError {
	err := NewGenerationError(stage, fmt.Sprintf("failed to %s generated file", stage)).WithTargetFile(target)
	err.WithCause(cause)
	return err
}

// WrapConfigurationError wraps configuration loading errors
func WrapConfigurationError(path, operation string, cause error) *ConfigurationError {
	err := &ConfigurationError{
		BaseError: Wrap(ConfigurationErrorCode, fmt.Sprintf("failed to %s configuration '%s'", operation, path), cause).
			WithContext("path", path).
			WithContext("operation", operation),
		Field: path,
	}
	return err
}

// ImportCollision reports two import paths that map to the same qualifier
func ImportCollision(name, firstPath, secondPath string) *GenerationError {
	err := NewGenerationError("imports",
		fmt.Sprintf("import name '%s' refers to both '%s' and '%s'", name, firstPath, secondPath))
	err.WithContext("name", name).
		WithContext("paths", []string{firstPath, secondPath}).
		WithSuggestion("Rename one of the packages so their last path elements differ")
	return err
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err ArrowError) {
	if *multiple == nil {
		*multiple = &MultipleErrors{}
	}
	(*multiple).Add(err)
}
