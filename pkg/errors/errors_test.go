package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Creation(t *testing.T) {
	cause := errors.New("underlying error")

	err := NewFilesystemError("failed to create directory", cause)

	assert.Equal(t, ErrorTypeFilesystem, err.Type)
	assert.Equal(t, "failed to create directory", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.NotNil(t, err.Context)
}

func TestDomainError_WithContext(t *testing.T) {
	err := NewConflictingPathError("not a directory", nil).
		WithContext("path", "/srv/app/auto-run").
		WithContext("instance", "prod1")

	assert.Equal(t, "/srv/app/auto-run", err.Context["path"])
	assert.Equal(t, "prod1", err.Context["instance"])
}

func TestDomainError_ErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		error    *DomainError
		expected string
	}{
		{
			name:     "error without cause",
			error:    NewMissingTemplateError("template not found", nil),
			expected: "missing_template: template not found",
		},
		{
			name:     "error with cause",
			error:    NewTemplateSubstitutionError("bad placeholder", errors.New("cause")),
			expected: "template_substitution: bad placeholder: cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.error.Error())
		})
	}
}

func TestDomainError_TypeChecking(t *testing.T) {
	configErr := NewInvalidConfigurationError("bad boolean", nil)
	conflictErr := NewConflictingPathError("not a directory", nil)

	assert.True(t, IsInvalidConfigurationError(configErr))
	assert.False(t, IsInvalidConfigurationError(conflictErr))
	assert.True(t, IsConflictingPathError(conflictErr))
	assert.False(t, IsFilesystemError(conflictErr))
	assert.False(t, IsMissingTemplateError(errors.New("plain")))

	wrapped := fmt.Errorf("install failed: %w", conflictErr)
	assert.True(t, IsConflictingPathError(wrapped))
	assert.True(t, errors.Is(wrapped, &DomainError{Type: ErrorTypeConflictingPath}))
	assert.False(t, errors.Is(wrapped, &DomainError{Type: ErrorTypeFilesystem}))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewFilesystemError("failed to create symlink", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestErrorCollection(t *testing.T) {
	collection := NewErrorCollection()
	assert.False(t, collection.HasErrors())
	assert.NoError(t, collection.ToError())

	collection.Add(nil)
	assert.False(t, collection.HasErrors())

	collection.Add(NewInvalidConfigurationError("instance is required", nil))
	assert.Equal(t, "invalid_configuration: instance is required", collection.Error())

	collection.Add(NewInvalidConfigurationError("pidfile is required", nil))
	err := collection.ToError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "pidfile is required")
	assert.True(t, IsInvalidConfigurationError(err))
}
