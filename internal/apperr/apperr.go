// Package apperr defines the error kinds shared by the catalog and account stores.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeConnection         Code = "CONNECTION"
	CodeSchema             Code = "SCHEMA"
	CodeValidation         Code = "VALIDATION"
	CodeDuplicateKey       Code = "DUPLICATE_KEY"
	CodeNotFound           Code = "NOT_FOUND"
	CodeHashing            Code = "HASHING"
	CodeComparison         Code = "COMPARISON"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeStore              Code = "STORE"
)

// Sentinels for errors.Is checks. Only the code is compared.
var (
	ErrConnection         = &Error{Code: CodeConnection}
	ErrSchema             = &Error{Code: CodeSchema}
	ErrValidation         = &Error{Code: CodeValidation}
	ErrDuplicateKey       = &Error{Code: CodeDuplicateKey}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrHashing            = &Error{Code: CodeHashing}
	ErrComparison         = &Error{Code: CodeComparison}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials}
	ErrStore              = &Error{Code: CodeStore}
)

// Error carries a kind, a human-readable message and the underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error of the given kind.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error of the given kind around cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HTTPStatus maps a code to the status the router answers with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeDuplicateKey:
		return http.StatusConflict
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
