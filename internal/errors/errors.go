package errors

import "fmt"

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeConfig       ErrCode = "CONFIG_ERROR"
	ErrCodeUnauthorized ErrCode = "UNAUTHORIZED"
	ErrCodeNotFound     ErrCode = "NOT_FOUND"
	ErrCodeTransient    ErrCode = "TRANSIENT"
	ErrCodeParse        ErrCode = "PARSE_ERROR"
	ErrCodeInternal     ErrCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfig,
		Message: message,
	}
}

// NewAuthError creates a new authentication error
func NewAuthError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewTransientError creates a new transient error
func NewTransientError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransient,
		Message: message,
		Err:     err,
	}
}

// NewParseError creates a new parse error
func NewParseError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeParse,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// IsAuth checks if the error is an authentication error
func IsAuth(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeUnauthorized
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeNotFound
	}
	return false
}

// IsTransient checks if the error is a transient error
func IsTransient(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeTransient
	}
	return false
}

// IsParse checks if the error is a parse error
func IsParse(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeParse
	}
	return false
}
