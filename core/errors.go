package core

import (
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced by any top-level operation.
type Kind int

const (
	// KindInternal marks an unexpected collaborator failure.
	KindInternal Kind = iota
	// KindInvalidInput marks an empty or malformed payload.
	KindInvalidInput
	// KindNotFound marks a reference to an id that does not exist.
	KindNotFound
	// KindTimeout marks an operation that exceeded its bound.
	KindTimeout
	// KindPartialFailure marks a batch where some items failed.
	KindPartialFailure
)

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	case KindPartialFailure:
		return "partial_failure"
	default:
		return "internal"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name. Unknown names decode as KindInternal.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "invalid_input":
		*k = KindInvalidInput
	case "not_found":
		*k = KindNotFound
	case "timeout":
		*k = KindTimeout
	case "partial_failure":
		*k = KindPartialFailure
	default:
		*k = KindInternal
	}

	return nil
}

// Error is the tagged failure returned by every top-level operation.
type Error struct {
	Kind Kind   // failure class
	Op   string // operation that failed, e.g. "consensus.manage"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare kind sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}

	return t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks.
var (
	ErrInvalidInput   = &Error{Kind: KindInvalidInput}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrTimeout        = &Error{Kind: KindTimeout}
	ErrPartialFailure = &Error{Kind: KindPartialFailure}
	ErrInternal       = &Error{Kind: KindInternal}
)

// E wraps err with an operation and kind.
func E(op string, kind Kind, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a tagged error from a format string.
func Errorf(op string, kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first tagged error in err's chain.
// Untagged errors are reported as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// ItemError is a per-item failure recorded inside a batch result.
type ItemError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *ItemError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// NewItemError converts err into an ItemError, keeping its kind when tagged.
func NewItemError(err error) *ItemError {
	if err == nil {
		return nil
	}

	return &ItemError{Kind: KindOf(err), Message: err.Error()}
}
