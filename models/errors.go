package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the single external signal for "missing" and "not yours".
	ErrNotFound = errors.New("not found or unauthorized")
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence matches any *PersistenceError.
	ErrPersistence = errors.New("persistence failed")
)

type ValidationReason string

const (
	ReasonRequired        ValidationReason = "required"
	ReasonUnsupportedType ValidationReason = "unsupported_type"
	ReasonTooLarge        ValidationReason = "too_large"
	ReasonOutOfRange      ValidationReason = "out_of_range"
	ReasonInvalid         ValidationReason = "invalid"
)

type ValidationError struct {
	Field   string
	Reason  ValidationReason
	Message string
}

func NewValidationError(field string, reason ValidationReason, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type NotFoundCause uint8

const (
	CauseMissing NotFoundCause = iota
	CauseNotOwner
)

func (c NotFoundCause) String() string {
	if c == CauseNotOwner {
		return "not_owner"
	}
	return "missing"
}

// NotFoundError carries the internal cause for logging; Error() never reveals it.
type NotFoundError struct {
	Entity string
	Cause  NotFoundCause
}

func (e *NotFoundError) Error() string {
	return e.Entity + " " + ErrNotFound.Error()
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(entity string, cause NotFoundCause) error {
	return &NotFoundError{Entity: entity, Cause: cause}
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
