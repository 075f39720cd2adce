package apperr

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the client
const (
	// Local precondition errors - detected before any network call
	ErrNoSession    = "NO_SESSION"
	ErrSessionError = "SESSION_ERROR"

	// Validation errors - enforced client-side before submission
	ErrInvalidInput       = "INVALID_INPUT"
	ErrTooManyLabels      = "TOO_MANY_LABELS"
	ErrAttachmentTooLarge = "ATTACHMENT_TOO_LARGE"
	ErrEmptyComment       = "EMPTY_COMMENT"

	// Network/backend failures
	ErrNetwork = "NETWORK"
	ErrBackend = "BACKEND"

	// Authentication/Authorization errors
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrForbidden          = "FORBIDDEN" // Authenticated but lacking the role for the action
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Resource errors
	ErrNotFound = "NOT_FOUND"
)

// Error creation helper functions
func New(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewNoSessionError() *AppError {
	return &AppError{
		Code:    ErrNoSession,
		Message: "not logged in",
	}
}

func NewNetworkError(operation string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrNetwork,
		Message: "request failed: " + operation,
		Origin:  originalErr,
	}
}

func NewBackendError(operation string, status int, message string) *AppError {
	code := ErrBackend
	switch status {
	case 400:
		code = ErrInvalidInput
	case 401:
		code = ErrUnauthorized
	case 403:
		code = ErrForbidden
	case 404:
		code = ErrNotFound
	}
	if message == "" {
		message = fmt.Sprintf("%s: backend returned %d", operation, status)
	}
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Helper method to check if an error is of a specific type
func IsCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// Helper method to check if an error is related to authentication
func IsAuthError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrUnauthorized ||
			appErr.Code == ErrForbidden ||
			appErr.Code == ErrNoSession ||
			appErr.Code == ErrInvalidCredentials
	}
	return false
}

// IsPrecondition reports whether err was raised before any network call.
func IsPrecondition(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		switch appErr.Code {
		case ErrNoSession, ErrSessionError, ErrInvalidInput,
			ErrTooManyLabels, ErrAttachmentTooLarge, ErrEmptyComment:
			return true
		}
	}
	return false
}
