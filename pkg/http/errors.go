package http

import (
	"fmt"
	"net/http"
)

// Error codes rendered in the response envelope.
const (
	CodeBadRequest    = "ERR_BAD_REQUEST"
	CodeNotFound      = "ERR_NOT_FOUND"
	CodeUnprocessable = "ERR_UNPROCESSABLE"
	CodeRateLimited   = "ERR_RATE_LIMITED"
	CodeUpstream      = "ERR_UPSTREAM"
	CodeTimeout       = "ERR_TIMEOUT"
	CodeInternal      = "ERR_INTERNAL"
)

// AppError is an error rendered to clients with an HTTP status.
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

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Field: field, Message: message, Status: status}
}

// WithParam attaches a client-visible detail such as a limit or a retry hint.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{}, 1)
	}
	e.Params[key] = value
	return e
}

// WithError keeps the cause for logging; it is never serialized.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return NewAppError(CodeBadRequest, "", fmt.Sprintf(format, a...), http.StatusBadRequest)
}

func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return NewAppError(CodeNotFound, "", fmt.Sprintf(format, a...), http.StatusNotFound)
}

// UnprocessableError reports input that is valid but cannot be computed.
func UnprocessableError(field, message string) *AppError {
	return NewAppError(CodeUnprocessable, field, message, http.StatusUnprocessableEntity)
}

// TooManyRequestsError reports an exhausted upstream rate limit.
func TooManyRequestsError(message string) *AppError {
	return NewAppError(CodeRateLimited, "", message, http.StatusTooManyRequests)
}

// BadGatewayError reports a failed data provider call.
func BadGatewayError(message string) *AppError {
	return NewAppError(CodeUpstream, "", message, http.StatusBadGateway)
}

func GatewayTimeoutError(message string) *AppError {
	return NewAppError(CodeTimeout, "", message, http.StatusGatewayTimeout)
}

func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, "", message, http.StatusInternalServerError)
}
