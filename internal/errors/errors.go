package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"hplusminus/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped AppError
// is kept; domain errors are classified with CodeFor.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    CodeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeCalibration       = "CALIBRATION_ERROR"
	CodeIO                = "IO_ERROR"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// CodeFor classifies err. AppErrors keep their code; domain sentinels map to
// the matching code; anything else is internal.
func CodeFor(err error) string {
	var appErr *AppError
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &appErr):
		return appErr.Code
	case stderrors.Is(err, core.ErrInvalidInput), stderrors.Is(err, core.ErrDomain):
		return CodeInvalidInput
	case stderrors.Is(err, core.ErrInvalidArgument), stderrors.Is(err, core.ErrUnknownTest):
		return CodeInvalidArgument
	case stderrors.Is(err, core.ErrCalibration):
		return CodeCalibration
	}
	return CodeInternalError
}

// HTTPStatus maps an error code to the status an API returns for it.
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidInput, CodeInvalidArgument, CodeUnsupportedFormat:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeCalibration:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func IOError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIO,
		Message: path,
		Cause:   cause,
	}
}

func UnsupportedFormat(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeUnsupportedFormat,
		Message: message,
		Cause:   cause,
	}
}
