// Package apierror defines the error type handlers and middleware return and
// the JSON error envelope the central error handler renders it as.
package apierror

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes carried in the envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeOAuthAccount       = "OAUTH_ACCOUNT"
	CodeAccountSuspended   = "ACCOUNT_SUSPENDED"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeInvalidRefresh     = "INVALID_REFRESH_TOKEN"
	CodeInvalidGoogleToken = "INVALID_GOOGLE_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeSlugExists         = "SLUG_EXISTS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
	CodeConfig             = "CONFIG_ERROR"
)

// Error is an HTTP failure with a stable code.  Fields holds per-field
// validation messages.  Cause is logged but never sent to the client.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap attaches the underlying cause to e and returns it.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Fields: fields}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Insufficient permissions"
	}
	return New(http.StatusForbidden, CodeForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "Internal server error", Cause: cause}
}

// Config reports a missing secret or similar deployment mistake.
func Config(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeConfig, Message: "Server misconfigured", Cause: cause}
}

// Body is the "error" member of the envelope.
type Body struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

// Envelope is the JSON shape of every failed response.
type Envelope struct {
	Success bool `json:"success"`
	Error   Body `json:"error"`
}
