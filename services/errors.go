// services/errors.go - Domain Error Taxonomy
package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so handlers can map it to an
// HTTP status without inspecting message text.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindConflict
	KindAuthorization
	KindNotFound
	KindStorage
)

// DomainError is the engine's failure type. Code is a stable machine
// identifier (e.g. "score_too_low"); Message is safe to surface.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

func validationError(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func conflictError(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func authorizationError(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindAuthorization, Code: code, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func storageError(op string, cause error) *DomainError {
	return &DomainError{Kind: KindStorage, Code: "storage_failure", Message: op, cause: cause}
}

// KindOf extracts the ErrorKind from err, defaulting to KindStorage for
// anything that is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}

// CodeOf returns the stable error code, or "internal_error".
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal_error"
}
