package signature

import (
	"errors"
	"fmt"
)

// Common errors returned by signature and database operations.
var (
	// ErrDuplicateSignature is returned when adding a signature whose name is
	// already registered. The database is left unchanged.
	ErrDuplicateSignature = errors.New("duplicate signature")

	// ErrSignatureNotFound is returned by lookups and removals for an unknown
	// signature name.
	ErrSignatureNotFound = errors.New("signature not found")

	// ErrInvalidSignature is returned when a signature or pattern fails
	// construction-time validation.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrPersistence is returned when loading or saving a signature catalog
	// fails. A failed load leaves the in-memory database untouched.
	ErrPersistence = errors.New("persistence failure")
)

// DuplicateSignatureError wraps ErrDuplicateSignature with the clashing name.
type DuplicateSignatureError struct {
	Name string
}

func (e *DuplicateSignatureError) Error() string {
	return fmt.Sprintf("signature already registered: %s", e.Name)
}

func (e *DuplicateSignatureError) Unwrap() error { return ErrDuplicateSignature }

// Is checks if the error matches ErrDuplicateSignature.
func (e *DuplicateSignatureError) Is(target error) bool { return target == ErrDuplicateSignature }

// NotFoundError wraps ErrSignatureNotFound with the missing name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("signature not found: %s", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrSignatureNotFound }

// Is checks if the error matches ErrSignatureNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrSignatureNotFound }

// InvalidSignatureError wraps ErrInvalidSignature with field-level detail.
type InvalidSignatureError struct {
	Field  string
	Reason string
}

func (e *InvalidSignatureError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid signature field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid signature: %s", e.Reason)
}

func (e *InvalidSignatureError) Unwrap() error { return ErrInvalidSignature }

// Is checks if the error matches ErrInvalidSignature.
func (e *InvalidSignatureError) Is(target error) bool { return target == ErrInvalidSignature }

// PersistenceError wraps ErrPersistence with the failing operation and source.
type PersistenceError struct {
	Op   string // "load", "save", "parse", "fetch"
	Path string // file path or URL, may be empty for reader/writer forms
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is checks if the error matches ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
