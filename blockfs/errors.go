package blockfs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a filesystem error, so callers can
// branch on failure mode without string matching.
type Kind int

const (
	// KindNotMounted is returned when an operation is attempted before
	// Mount or after Unmount.
	KindNotMounted Kind = iota
	// KindNotFound is returned when a named file is missing on
	// open-for-read or delete.
	KindNotFound
	// KindNoSpace is returned when no free block is available during
	// open-for-write or write.
	KindNoSpace
	// KindInvalidHandle is returned when read/write/close/seek is
	// attempted with no open file.
	KindInvalidHandle
	// KindBusy is returned by Open when a handle is already open
	// against this FS. The original source left concurrent-open
	// behavior undefined; this package narrows it into an explicit
	// error rather than silently clobbering the shared staging buffer.
	KindBusy
	// KindIO is returned when the underlying Device fails a ReadAt or
	// WriteAt. The core has no retry logic and no recovery path for
	// this - it surfaces as-is.
	KindIO
	// KindInvalidConfig is returned by Mount when the supplied Config
	// describes a region the block layout cannot represent.
	KindInvalidConfig
)

func (k Kind) String() string {
	switch k {
	case KindNotMounted:
		return "not mounted"
	case KindNotFound:
		return "not found"
	case KindNoSpace:
		return "no space"
	case KindInvalidHandle:
		return "invalid handle"
	case KindBusy:
		return "busy"
	case KindIO:
		return "device i/o error"
	case KindInvalidConfig:
		return "invalid config"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every exported blockfs operation.
// Op names the failing operation (e.g. "open", "write") and Err, if
// non-nil, wraps an underlying cause such as a Device I/O failure.
type Error struct {
	Kind Kind
	Op   string
	Name string // file name, if applicable
	Err  error
}

func (e *Error) Error() string {
	if e.Name != "" {
		if e.Err != nil {
			return fmt.Sprintf("blockfs: %s %q: %s: %v", e.Op, e.Name, e.Kind, e.Err)
		}
		return fmt.Sprintf("blockfs: %s %q: %s", e.Op, e.Name, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("blockfs: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("blockfs: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind}
}

func newErrName(op string, kind Kind, name string) *Error {
	return &Error{Op: op, Kind: kind, Name: name}
}

func wrapErr(op string, err error) *Error {
	return &Error{Op: op, Kind: KindIO, Err: err}
}

// Is reports whether err is a blockfs error of the given kind.
func Is(err error, kind Kind) bool {
	var fsErr *Error
	if !errors.As(err, &fsErr) {
		return false
	}
	return fsErr.Kind == kind
}
