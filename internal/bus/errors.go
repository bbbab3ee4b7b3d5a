package bus

import (
	"errors"
	"fmt"
)

var (
	// ErrNoChannel is an error that occurs when a channel handle is out of
	// range, or refers to a channel that was already closed.
	ErrNoChannel = errors.New("no such channel")

	// ErrWouldBlock is an error that occurs when a non-blocking operation
	// cannot proceed, because the channel is full (sending) or empty
	// (receiving).
	ErrWouldBlock = errors.New("operation would block")

	// ErrNotImplemented is an error that occurs when an optional operation is
	// called, but was not enabled for the [Bus].
	ErrNotImplemented = errors.New("operation not implemented")
)

// ErrorCode is the last-error value recorded by a [Bus] after every call.
type ErrorCode int

const (
	// ErrCodeNone means the last operation succeeded.
	ErrCodeNone ErrorCode = iota

	// ErrCodeNoChannel corresponds to [ErrNoChannel].
	ErrCodeNoChannel

	// ErrCodeWouldBlock corresponds to [ErrWouldBlock].
	ErrCodeWouldBlock

	// ErrCodeNotImplemented corresponds to [ErrNotImplemented].
	ErrCodeNotImplemented
)

func (e ErrorCode) String() string {
	switch e {
	case ErrCodeNone:
		return "none"
	case ErrCodeNoChannel:
		return "no channel"
	case ErrCodeWouldBlock:
		return "would block"
	case ErrCodeNotImplemented:
		return "not implemented"
	default:
		return fmt.Sprintf("error code %d", int(e))
	}
}

// Err returns the sentinel error matching the code, or nil for
// [ErrCodeNone].
func (e ErrorCode) Err() error {
	switch e {
	case ErrCodeNone:
		return nil
	case ErrCodeNoChannel:
		return ErrNoChannel
	case ErrCodeWouldBlock:
		return ErrWouldBlock
	default:
		return ErrNotImplemented
	}
}

func codeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrCodeNone
	case errors.Is(err, ErrNoChannel):
		return ErrCodeNoChannel
	case errors.Is(err, ErrWouldBlock):
		return ErrCodeWouldBlock
	default:
		return ErrCodeNotImplemented
	}
}
