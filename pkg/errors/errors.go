package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies failures of the auto-run setup
type ErrorType string

const (
	ErrorTypeInvalidConfiguration ErrorType = "invalid_configuration"
	ErrorTypeMissingTemplate      ErrorType = "missing_template"
	ErrorTypeTemplateSubstitution ErrorType = "template_substitution"
	ErrorTypeConflictingPath      ErrorType = "conflicting_path"
	ErrorTypeFilesystem           ErrorType = "filesystem"
)

// DomainError represents a structured error with type and context
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError of the same type
func (e *DomainError) Is(target error) bool {
	if other, ok := target.(*DomainError); ok {
		return e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func NewInvalidConfigurationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInvalidConfiguration, message, cause)
}

func NewMissingTemplateError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeMissingTemplate, message, cause)
}

func NewTemplateSubstitutionError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeTemplateSubstitution, message, cause)
}

func NewConflictingPathError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeConflictingPath, message, cause)
}

func NewFilesystemError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeFilesystem, message, cause)
}

// Error checking helpers

func IsInvalidConfigurationError(err error) bool {
	return isType(err, ErrorTypeInvalidConfiguration)
}

func IsMissingTemplateError(err error) bool {
	return isType(err, ErrorTypeMissingTemplate)
}

func IsTemplateSubstitutionError(err error) bool {
	return isType(err, ErrorTypeTemplateSubstitution)
}

func IsConflictingPathError(err error) bool {
	return isType(err, ErrorTypeConflictingPath)
}

func IsFilesystemError(err error) bool {
	return isType(err, ErrorTypeFilesystem)
}

// isType looks at the outermost DomainError only, so a filesystem failure
// wrapped by a configuration error still reports as configuration.
func isType(err error, errorType ErrorType) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == errorType
}

// ErrorCollection aggregates errors found while validating configuration
type ErrorCollection struct {
	Errors []error
}

func (e *ErrorCollection) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d errors occurred: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (e *ErrorCollection) Unwrap() []error {
	return e.Errors
}

func (e *ErrorCollection) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *ErrorCollection) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ErrorCollection) ToError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors: make([]error, 0),
	}
}
