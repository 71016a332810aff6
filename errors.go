package pager

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a pager Error. These are kinds, not wire values —
// there is no on-disk or ABI compatibility requirement on the numbers.
type ErrorCode int

const (
	// ErrIO covers any OS-level read, write, seek, truncate, stat, map,
	// unmap, close, or advise failure not otherwise classified.
	ErrIO ErrorCode = iota + 1

	// ErrFileNotFound is returned by Open of a non-existent path.
	ErrFileNotFound

	// ErrWouldBlock indicates advisory-lock contention during Create/Open.
	ErrWouldBlock

	// ErrLimitsReached indicates an allocation or truncate would push the
	// file (or, for InMemoryDevice, the live byte count) past the
	// configured file size limit.
	ErrLimitsReached

	// ErrNotImplemented indicates a file-oriented operation was called on
	// the in-memory device, or mmap was requested on a platform that
	// does not provide it.
	ErrNotImplemented

	// ErrInvalid indicates a misuse of the API: an operation on a closed
	// or already-open handle, an out-of-range configuration value, or a
	// precondition violation (e.g. a sub-page write while encryption is
	// enabled).
	ErrInvalid

	// ErrCorrupted indicates the on-disk layout failed a structural check
	// (e.g. a file shorter than its declared page count).
	ErrCorrupted

	// ErrNetwork, ErrKeyNotFound, and ErrDuplicateKey are surfaced by
	// outer layers (transport, B+tree) that are not part of this core;
	// the core never produces them itself. They exist here only so the
	// taxonomy is complete for callers that funnel every error through
	// one ErrorCode switch.
	ErrNetwork
	ErrKeyNotFound
	ErrDuplicateKey
)

var errorMessages = map[ErrorCode]string{
	ErrIO:             "I/O error",
	ErrFileNotFound:   "file not found",
	ErrWouldBlock:     "advisory lock held by another process",
	ErrLimitsReached:  "file size limit reached",
	ErrNotImplemented: "operation not implemented for this device",
	ErrInvalid:        "invalid operation or argument",
	ErrCorrupted:      "backing store is corrupted",
	ErrNetwork:        "network error",
	ErrKeyNotFound:    "key not found",
	ErrDuplicateKey:   "duplicate key",
}

// Error is the error type returned by every exported operation in this
// package. It always carries a Code, and may wrap an underlying error
// (typically a *fs.PathError or a syscall.Errno).
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	msg, ok := errorMessages[e.Code]
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("pager: %s: %v", msg, e.Err)
	}
	return fmt.Sprintf("pager: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error with no wrapped cause.
func NewError(code ErrorCode) *Error {
	return &Error{Code: code}
}

// WrapError builds an Error wrapping an underlying cause.
func WrapError(code ErrorCode, err error) *Error {
	if err == nil {
		return NewError(code)
	}
	return &Error{Code: code, Err: err}
}

// Code returns the ErrorCode carried by err, or 0 if err is nil or not a
// *Error.
func Code(err error) ErrorCode {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// IsNotFound reports whether err is an ErrFileNotFound error.
func IsNotFound(err error) bool { return Code(err) == ErrFileNotFound }

// IsWouldBlock reports whether err is an ErrWouldBlock error.
func IsWouldBlock(err error) bool { return Code(err) == ErrWouldBlock }

// IsLimitsReached reports whether err is an ErrLimitsReached error.
func IsLimitsReached(err error) bool { return Code(err) == ErrLimitsReached }

// IsNotImplemented reports whether err is an ErrNotImplemented error.
func IsNotImplemented(err error) bool { return Code(err) == ErrNotImplemented }

// IsCorrupted reports whether err is an ErrCorrupted error.
func IsCorrupted(err error) bool { return Code(err) == ErrCorrupted }
