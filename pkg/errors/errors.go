package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// Stable error codes surfaced to API clients.
const (
	CodeSchemaNotFound   = "SCHEMA_NOT_FOUND"
	CodeStageNotFound    = "STAGE_NOT_FOUND"
	CodePromptNotFound   = "PROMPT_NOT_FOUND"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeCoachNotFound    = "COACH_NOT_FOUND"
	CodeDuplicateVersion = "DUPLICATE_VERSION"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewSchemaNotFoundError reports a form schema absent from every layer.
func NewSchemaNotFoundError(name string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeSchemaNotFound,
		Message: fmt.Sprintf("schema '%s' not found", name),
	}
}

// NewStageNotFoundError reports a stage unknown to the default catalog.
func NewStageNotFoundError(formName, stageID string) *AppError {
	msg := fmt.Sprintf("stage '%s' not found", stageID)
	if formName != "" {
		msg = fmt.Sprintf("stage '%s' not found in form '%s'", stageID, formName)
	}
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeStageNotFound,
		Message: msg,
	}
}

// NewPromptNotFoundError reports a prompt absent from the store and the defaults.
func NewPromptNotFoundError(formName, stageID string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodePromptNotFound,
		Message: fmt.Sprintf("prompt for stage '%s' in form '%s' not found", stageID, formName),
	}
}

// NewSessionNotFoundError reports an interview session the caller cannot see.
func NewSessionNotFoundError(id string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeSessionNotFound,
		Message: fmt.Sprintf("interview '%s' not found", id),
	}
}

// NewCoachNotFoundError reports an unknown coach.
func NewCoachNotFoundError(id string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeCoachNotFound,
		Message: fmt.Sprintf("coach '%s' not found", id),
	}
}

// NewDuplicateVersionError reports a version string already used for an identity.
func NewDuplicateVersionError(identity, version string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeDuplicateVersion,
		Message: fmt.Sprintf("version '%s' already exists for '%s'", version, identity),
		Err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain,
// or ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// CodeOf returns the code of the first AppError in err's chain.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeNotFound
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeConflict
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeValidation
}
