package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeTransport  ErrCode = "TRANSPORT"
	ErrCodeStatus     ErrCode = "HTTP_STATUS"
	ErrCodeDecode     ErrCode = "DECODE"
	ErrCodeBusy       ErrCode = "BUSY"
	ErrCodeBadRequest ErrCode = "BAD_REQUEST"
	ErrCodeInternal   ErrCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code       ErrCode
	Message    string
	StatusCode int
	Err        error
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

// NewTransportError creates an error for a request that never got a response
func NewTransportError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransport,
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}

// NewStatusError creates an error for a non-2xx response
func NewStatusError(op string, status int, body []byte) *AppError {
	msg := fmt.Sprintf("%s returned status %d", op, status)
	if len(body) > 0 {
		msg += " - " + string(body)
	}
	return &AppError{
		Code:       ErrCodeStatus,
		Message:    msg,
		StatusCode: status,
	}
}

// NewDecodeError creates an error for a response body of unexpected shape
func NewDecodeError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeDecode,
		Message: fmt.Sprintf("%s returned a malformed body", op),
		Err:     err,
	}
}

// NewBusyError creates an error for an action rejected while another is outstanding
func NewBusyError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBusy,
		Message: message,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
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

// CodeOf returns the code of the first AppError in err's chain, or "" if none
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsTransport checks if the error is a network failure
func IsTransport(err error) bool {
	return CodeOf(err) == ErrCodeTransport
}

// IsStatus checks if the error is a non-success HTTP status
func IsStatus(err error) bool {
	return CodeOf(err) == ErrCodeStatus
}

// IsDecode checks if the error is a malformed response
func IsDecode(err error) bool {
	return CodeOf(err) == ErrCodeDecode
}

// IsBusy checks if the error is a rejected concurrent submission
func IsBusy(err error) bool {
	return CodeOf(err) == ErrCodeBusy
}
