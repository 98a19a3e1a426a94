package errors

import (
	"errors"
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

	// ErrorTypeUnauthorized indicates unauthorized access
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// ErrorCode narrows an ErrorType to a specific domain failure
type ErrorCode string

const (
	CodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeAccountInactive    ErrorCode = "ACCOUNT_INACTIVE"
	CodeInvalidStatus      ErrorCode = "INVALID_STATUS"
	CodeServiceNotFound    ErrorCode = "SERVICE_NOT_FOUND"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Code    ErrorCode
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

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
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

func NewDuplicateEmailError() *AppError {
	return &AppError{Type: ErrorTypeConflict, Code: CodeDuplicateEmail, Message: "Email already exists"}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Code: CodeInvalidCredentials, Message: "Invalid email or password"}
}

func NewAccountInactiveError() *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Code: CodeAccountInactive, Message: "Account is inactive"}
}

// NewInvalidStatusError reports a booking status outside the fixed set
func NewInvalidStatusError(status string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidStatus,
		Message: fmt.Sprintf("Invalid booking status: %q", status),
	}
}

func NewServiceNotFoundError(serviceID string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeServiceNotFound,
		Message: fmt.Sprintf("Service %s not found", serviceID),
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain,
// or ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// CodeOf returns the ErrorCode of the first AppError in err's chain
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found AppError
func IsNotFound(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeNotFound
}
