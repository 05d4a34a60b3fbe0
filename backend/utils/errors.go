package utils

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures the HTTP boundary knows how to report.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindProvider
	KindPersistenceUnavailable
	KindNotFound
	KindUnauthorized
	KindConflict
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindProvider:
		return "provider_error"
	case KindPersistenceUnavailable:
		return "persistence_unavailable"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// FieldError names one violated input constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(message string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

// NewProviderError reports an external call that failed or returned unusable data.
func NewProviderError(message string, err error) *AppError {
	return &AppError{Kind: KindProvider, Message: message, Err: err}
}

func NewPersistenceUnavailable(message string) *AppError {
	return &AppError{Kind: KindPersistenceUnavailable, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewConflict(message string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Fields: fields}
}

// KindOf returns the kind of the first AppError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

func NewForbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}
