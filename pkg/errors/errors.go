// Package errors carries the typed error codes the API maps onto HTTP
// statuses and public messages.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code surfaces to API callers.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func clientMeta(status int, msg string, details bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: msg, DetailsAllowed: details}
}

var registry = map[Code]Metadata{
	CodeValidation:    clientMeta(http.StatusBadRequest, "validation failed", true),
	CodeUnauthorized:  clientMeta(http.StatusUnauthorized, "Please log in", false),
	CodeForbidden:     clientMeta(http.StatusForbidden, "access denied", false),
	CodeNotFound:      clientMeta(http.StatusNotFound, "resource not found", false),
	CodeConflict:      clientMeta(http.StatusConflict, "conflict detected", false),
	CodeStateConflict: clientMeta(http.StatusUnprocessableEntity, "state transition disallowed", true),
	CodeIdempotency:   clientMeta(http.StatusConflict, "idempotency key reused", true),
	CodeRateLimit:     clientMeta(http.StatusTooManyRequests, "rate limit exceeded", false),

	CodeInternal:   {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error"},
	CodeDependency: {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable", DetailsAllowed: true},
}

// MetadataFor falls back to the internal entry for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := registry[code]; ok {
		return meta
	}
	return registry[CodeInternal]
}

// Error is a coded error with an optional cause and client-visible details.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and message to err. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

// Error includes the cause so log lines keep the driver text.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return fmt.Sprintf("%s: %s", e.code, e.message)
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the typed code carried by err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	return As(err).Code()
}

func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// PublicMessage is the text safe to show a caller: the typed message for
// client-facing codes, the generic one for 5xx and untyped errors.
func PublicMessage(err error) string {
	typed := As(err)
	meta := MetadataFor(typed.Code())
	if typed == nil || meta.HTTPStatus >= http.StatusInternalServerError || typed.message == "" {
		return meta.PublicMessage
	}
	return typed.message
}
