package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTypes(t *testing.T) {
	t.Run("RepositoryUnavailable", func(t *testing.T) {
		baseErr := errors.New("exit status 128")
		err := NewRepositoryUnavailable("https://example.com/x.git", baseErr)

		if !IsRepositoryUnavailable(err) {
			t.Error("Expected RepositoryUnavailableError")
		}
		if IsConfiguration(err) {
			t.Error("Did not expect ConfigurationError")
		}
		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap base error")
		}

		expectedMsg := "repository unavailable (https://example.com/x.git): exit status 128"
		if err.Error() != expectedMsg {
			t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
		}
	})

	t.Run("Configuration", func(t *testing.T) {
		baseErr := errors.New("unknown encoding")
		err := NewConfiguration("encoding", baseErr)

		if !IsConfiguration(err) {
			t.Error("Expected ConfigurationError")
		}

		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatal("Expected errors.As to find ConfigurationError")
		}
		if cfgErr.Field != "encoding" {
			t.Errorf("Expected field %q, got %q", "encoding", cfgErr.Field)
		}

		expectedMsg := "configuration error (encoding): unknown encoding"
		if err.Error() != expectedMsg {
			t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
		}
	})

	t.Run("WrappedByFmt", func(t *testing.T) {
		err := fmt.Errorf("analyze: %w", NewConfiguration("", errors.New("boom")))
		if !IsConfiguration(err) {
			t.Error("Expected wrapped ConfigurationError to be detected")
		}
		if err.Error() != "analyze: configuration error: boom" {
			t.Errorf("Unexpected message %q", err.Error())
		}
	})

	t.Run("Nil", func(t *testing.T) {
		if IsRepositoryUnavailable(nil) || IsConfiguration(nil) {
			t.Error("nil must not classify")
		}
	})
}
