package errors

import "fmt"

// ErrorCode identifies an application error category
type ErrorCode string

const (
	// Generic codes
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Token codes
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Registration domain codes
	ErrEventNotFound     ErrorCode = "EVENT_NOT_FOUND"
	ErrEventClosed       ErrorCode = "EVENT_CLOSED"
	ErrEventFull         ErrorCode = "EVENT_FULL"
	ErrAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	ErrNotRegistered     ErrorCode = "NOT_REGISTERED"
)

// AppError is the structured error passed between service and controller layers
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
