// Package errs provides the unified error type used across all of blobidx.
//
// Every subsystem (filestore backends, the indexing engine, ranked search,
// the HTTP surface) wraps its native errors into *errs.Error before
// returning them to callers. Callers use the Is* predicates to handle
// errors without importing backend-specific packages.
//
// Usage:
//
//	// In a backend, wrap native errors:
//	return errs.Wrap(errs.ErrKindTimeout, "list timed out", err)
//
//	// In a caller, tell a broken store from an unindexable object:
//	if errs.IsStorage(err) {
//	    // retry the whole build later
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
// All backends (filesystem, MinIO, Postgres, MySQL) map their native errors
// to one of these kinds, giving callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no object, no collection, no bucket
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindIOFailed                 // list / read / write failed
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindPermissionDenied         // access denied / auth failure
	ErrKindInvalidName              // an object name failed validation
	ErrKindDataFormat               // structured encode / decode failure
	ErrKindIndexing                 // keymap failed, or a score was NaN
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindIOFailed:
		return "io_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindInvalidName:
		return "invalid_name"
	case ErrKindDataFormat:
		return "data_format"
	case ErrKindIndexing:
		return "indexing"
	default:
		return "unknown"
	}
}

// IsStorageKind reports whether k belongs to the storage family: the
// backend itself misbehaved, as opposed to an object's content being
// unindexable.
func (k ErrKind) IsStorageKind() bool {
	switch k {
	case ErrKindNotFound, ErrKindConnectionFailed, ErrKindTimeout,
		ErrKindIOFailed, ErrKindPermissionDenied, ErrKindInvalidName:
		return true
	}
	return false
}

// Error is the single error type returned by all blobidx subsystems.
// Backends produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original backend-level or keymap error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing object or collection.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsIOFailed reports whether err is a backend list / read / write failure.
func IsIOFailed(err error) bool {
	return KindOf(err) == ErrKindIOFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsInvalidName reports whether err is an object name validation failure.
func IsInvalidName(err error) bool {
	return KindOf(err) == ErrKindInvalidName
}

// IsDataFormat reports whether err is a structured encode / decode failure.
func IsDataFormat(err error) bool {
	return KindOf(err) == ErrKindDataFormat
}

// IsIndexing reports whether err came from a keymap or a scoring function.
func IsIndexing(err error) bool {
	return KindOf(err) == ErrKindIndexing
}

// IsStorage reports whether err means the storage layer misbehaved
// (I/O, connectivity, missing objects or an invalid listed name).
func IsStorage(err error) bool {
	return KindOf(err).IsStorageKind()
}

// KindOf extracts the ErrKind of the outermost *Error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
