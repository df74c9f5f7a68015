package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

// Metadata describes how an error code should be surfaced to the user.
type Metadata struct {
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:     false,
		PublicMessage: "the request was invalid",
	},
	CodeUnauthorized: {
		Retryable:     false,
		PublicMessage: "please sign in and try again",
	},
	CodeForbidden: {
		Retryable:     false,
		PublicMessage: "access denied",
	},
	CodeNotFound: {
		Retryable:     false,
		PublicMessage: "resource not found",
	},
	CodeConflict: {
		Retryable:     false,
		PublicMessage: "the item is no longer available",
	},
	CodeRateLimit: {
		Retryable:     true,
		PublicMessage: "too many requests, try again shortly",
	},
	CodeInternal: {
		Retryable:     true,
		PublicMessage: "something went wrong",
	},
	CodeDependency: {
		Retryable:     true,
		PublicMessage: "service unavailable, try again shortly",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// FromStatus classifies a remote HTTP status into an error code.
func FromStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimit
	}
	if status >= http.StatusInternalServerError {
		return CodeDependency
	}
	return CodeInternal
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
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
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// PublicMessage returns the user-facing string for the error's code.
func (e *Error) PublicMessage() string {
	return MetadataFor(e.Code()).PublicMessage
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// Display resolves a user-facing message for any error, falling back to the
// provided default when the error carries no code.
func Display(err error, fallback string) string {
	if typed := As(err); typed != nil {
		return typed.PublicMessage()
	}
	return fallback
}
