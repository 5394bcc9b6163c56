package http

import (
	"fmt"
	"net/http"
	"strings"
)

// Error codes surfaced to users.
const (
	CodeBadRequest      = "ERR_BAD_REQUEST"
	CodeValidation      = "ERR_VALIDATION"
	CodeDateRange       = "ERR_DATE_RANGE"
	CodeEmptyResult     = "ERR_EMPTY_RESULT"
	CodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
	CodeInternal        = "ERR_INTERNAL"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
	}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, "", message, http.StatusBadRequest)
}

// BadRequestErrorf creates a 400 error with formatting.
func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return BadRequestError(fmt.Sprintf(format, a...))
}

// ValidationFailedError folds per-field validation errors into one 400 error.
func ValidationFailedError(errs []ValidationError) *AppError {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	appErr := NewAppError(CodeValidation, "", strings.Join(msgs, "; "), http.StatusBadRequest)
	if len(errs) == 1 {
		appErr.Field = errs[0].Field
	}
	return appErr.WithParam("errors", errs)
}

// EmptyResultError is returned when the provider produced no rows.
func EmptyResultError(message string) *AppError {
	return NewAppError(CodeEmptyResult, "", message, http.StatusUnprocessableEntity)
}

// TooManyRequestsError creates a 429 error.
func TooManyRequestsError(message string) *AppError {
	return NewAppError(CodeTooManyRequests, "", message, http.StatusTooManyRequests)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, "", message, http.StatusInternalServerError)
}
