package ufs

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFile is an error that occurs when a file name is unknown or
	// deleted, or a file descriptor is invalid or already closed.
	ErrNoFile = errors.New("no such file")

	// ErrNoMem is an error that occurs when not a single byte can be written
	// without exceeding the maximum file size, or a requested size is out of
	// bounds.
	ErrNoMem = errors.New("maximum file size exceeded")

	// ErrNotImplemented is an error that occurs when an optional operation is
	// called, but was not enabled for the [FileSystem].
	ErrNotImplemented = errors.New("operation not implemented")
)

// ErrorCode is the last-error value recorded by a [FileSystem] after every
// call.
type ErrorCode int

const (
	// ErrCodeNone means the last operation succeeded.
	ErrCodeNone ErrorCode = iota

	// ErrCodeNoFile corresponds to [ErrNoFile].
	ErrCodeNoFile

	// ErrCodeNoMem corresponds to [ErrNoMem].
	ErrCodeNoMem

	// ErrCodeNotImplemented corresponds to [ErrNotImplemented].
	ErrCodeNotImplemented
)

func (e ErrorCode) String() string {
	switch e {
	case ErrCodeNone:
		return "no error"
	case ErrCodeNoFile:
		return "no file"
	case ErrCodeNoMem:
		return "no memory"
	case ErrCodeNotImplemented:
		return "not implemented"
	default:
		return fmt.Sprintf("error code %d", int(e))
	}
}

func codeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrCodeNone
	case errors.Is(err, ErrNoFile):
		return ErrCodeNoFile
	case errors.Is(err, ErrNoMem):
		return ErrCodeNoMem
	default:
		return ErrCodeNotImplemented
	}
}
