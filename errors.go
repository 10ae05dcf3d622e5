// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"fmt"
	"syscall"
)

// ErrorKind enumerates the categories of error talk and the façade built
// on it can return.
type ErrorKind int

const (
	// ServerError means the server replied with type ERROR; Errno holds
	// the mapped errno and Mnemonic the raw string it sent.
	ServerError ErrorKind = iota + 1

	// TransportError is an I/O failure on the underlying ring.
	TransportError

	// OutOfMemory mirrors the source's allocator-failure path. It is
	// never raised implicitly by the Go runtime; see SPEC_FULL.md §7.
	OutOfMemory

	// InvalidArgument covers a scanf that converted zero fields and an
	// oversized printf payload (SPEC_FULL.md §4.7, §9).
	InvalidArgument

	// Cancelled is returned to a talk call blocked waiting for its reply
	// when Client.Close is called.
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ServerError:
		return "ServerError"
	case TransportError:
		return "TransportError"
	case OutOfMemory:
		return "OutOfMemory"
	case InvalidArgument:
		return "InvalidArgument"
	case Cancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the error type returned by talk and the façade built on it.
type Error struct {
	Kind ErrorKind

	// Mnemonic and Errno are populated only when Kind == ServerError:
	// Mnemonic is the server's literal string (e.g. "ENOENT") and Errno
	// its mapping through the error table, syscall.EINVAL for anything
	// the table does not recognize.
	Mnemonic string
	Errno    syscall.Errno

	// Wrapped is the underlying transport or parse error, if any.
	Wrapped error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ServerError:
		return fmt.Sprintf("xenstore: server error %s (%v)", e.Mnemonic, e.Errno)
	case e.Wrapped != nil:
		return fmt.Sprintf("xenstore: %v: %v", e.Kind, e.Wrapped)
	default:
		return fmt.Sprintf("xenstore: %v", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// IsAlreadyExists reports whether err is a ServerError mapping to EEXIST,
// the idempotent-re-registration case register_watch treats as success.
func IsAlreadyExists(err error) bool {
	xerr, ok := err.(*Error)
	return ok && xerr.Kind == ServerError && xerr.Errno == syscall.EEXIST
}

func transportError(err error) *Error {
	return &Error{Kind: TransportError, Wrapped: err}
}

func serverErrorFromMnemonic(mnemonic string, logf func(string, ...interface{})) *Error {
	errno, ok := errnoTable[mnemonic]
	if !ok {
		if logf != nil {
			logf("unrecognized server error mnemonic %q; mapping to EINVAL", mnemonic)
		}
		errno = syscall.EINVAL
	}
	return &Error{Kind: ServerError, Mnemonic: mnemonic, Errno: errno}
}

func invalidArgument(err error) *Error {
	return &Error{Kind: InvalidArgument, Wrapped: err}
}

// ErrClosed is returned by talk when Client.Close has been called while
// it waits for a reply.
var ErrClosed = &Error{Kind: Cancelled}
