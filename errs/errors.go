package errs

import (
	"errors"
	"fmt"
)

// Error types for classification
type (
	// RepositoryUnavailableError represents a repository that could not be
	// cloned or opened. It is fatal for the current run and never retried.
	RepositoryUnavailableError struct {
		Source string
		Err    error
	}

	// ConfigurationError represents an invalid or missing setting, such as an
	// unknown tokenizer encoding or a malformed static table.
	ConfigurationError struct {
		Field string
		Err   error
	}
)

func (e *RepositoryUnavailableError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("repository unavailable (%s): %v", e.Source, e.Err)
	}
	return fmt.Sprintf("repository unavailable: %v", e.Err)
}

func (e *RepositoryUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error (%s): %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Constructor functions
func NewRepositoryUnavailable(source string, err error) error {
	return &RepositoryUnavailableError{Source: source, Err: err}
}

func NewConfiguration(field string, err error) error {
	return &ConfigurationError{Field: field, Err: err}
}

// IsRepositoryUnavailable reports whether err is, or wraps, a RepositoryUnavailableError
func IsRepositoryUnavailable(err error) bool {
	var target *RepositoryUnavailableError
	return errors.As(err, &target)
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
