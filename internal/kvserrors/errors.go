// Package kvserrors implements the flattened error hierarchy described by
// the storage engine's design: a single StorageError type discriminated by
// Kind, instead of a class hierarchy per failure mode.
package kvserrors

import (
	"context"
	"errors"
	"fmt"
)

// Kind discriminates the family of a StorageError.
type Kind int

const (
	// KindRead marks a decode failure while reading a store (corrupt file,
	// failed decrypt, codec mismatch).
	KindRead Kind = iota
	// KindWrite marks a failure during a commit's serialize/encrypt/replace
	// pipeline.
	KindWrite
	KindClear
	KindRemove
	KindContains
	KindGetAll
	// KindEncrypt / KindDecrypt mark crypto failures that could not be
	// recovered to plaintext.
	KindEncrypt
	KindDecrypt
	// KindInvalidState marks an Editor used after commit, during commit, or
	// a double commit.
	KindInvalidState
	// KindCancelled marks an operation cancelled via context; it must never
	// be swallowed.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindClear:
		return "clear"
	case KindRemove:
		return "remove"
	case KindContains:
		return "contains"
	case KindGetAll:
		return "get_all"
	case KindEncrypt:
		return "encrypt"
	case KindDecrypt:
		return "decrypt"
	case KindInvalidState:
		return "invalid_state"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// StorageError is the single error type surfaced across the engine. Callers
// match on Kind rather than on a type hierarchy.
type StorageError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("kvs: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("kvs: %s: %s", e.Kind, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// New builds a StorageError with no wrapped cause.
func New(kind Kind, message string) *StorageError {
	return &StorageError{Kind: kind, Message: message}
}

// Wrap builds a StorageError wrapping cause. If cause is a context
// cancellation/deadline error it is re-raised unchanged instead of being
// downgraded, per the propagation policy: Cancelled must never be
// swallowed or converted into a local error.
func Wrap(kind Kind, message string, cause error) error {
	if cause == nil {
		return New(kind, message)
	}
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return cause
	}
	return &StorageError{Kind: kind, Message: message, Cause: cause}
}

// InvalidState is a convenience constructor for the editor state machine.
func InvalidState(message string) *StorageError {
	return New(KindInvalidState, message)
}

// Is reports whether err is a StorageError of the given kind.
func Is(err error, kind Kind) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
