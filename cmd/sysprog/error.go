package main

import "errors"

var (
	// ErrChecksumMismatch occurs when the messages received over the bus do
	// not add up to the messages that were sent.
	ErrChecksumMismatch = errors.New("received messages do not match sent messages")

	// ErrContentMismatch occurs when content read back from a file differs
	// from the content written to it.
	ErrContentMismatch = errors.New("file content does not match written content")

	// ErrResourceLeak occurs when resources of the file system remain after
	// all files were deleted and closed.
	ErrResourceLeak = errors.New("file system resources were leaked")
)
