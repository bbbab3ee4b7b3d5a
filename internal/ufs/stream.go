package ufs

import (
	"errors"
	"io"
)

// Stream adapts an open descriptor to the [io.Reader], [io.Writer] and
// [io.Closer] interfaces.
type Stream struct {
	fs *FileSystem
	fd FD
}

// Stream returns a [Stream] operating on the descriptor.
func (fs *FileSystem) Stream(fd FD) *Stream {
	return &Stream{fs: fs, fd: fd}
}

// Read implements [io.Reader], returning [io.EOF] at the end of the file.
func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.fs.Read(s.fd, p)
	if err != nil {
		return n, err
	}

	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}

	return n, nil
}

// Write implements [io.Writer]. A write truncated by the maximum file size
// returns [io.ErrShortWrite].
func (s *Stream) Write(p []byte) (int, error) {
	n, err := s.fs.Write(s.fd, p)
	if err != nil {
		return n, err
	}

	if n < len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}

// Close implements [io.Closer] by closing the descriptor.
func (s *Stream) Close() error {
	return s.fs.Close(s.fd)
}

// IsFull returns whether err reports that a file reached the maximum size.
func IsFull(err error) bool {
	return errors.Is(err, ErrNoMem) || errors.Is(err, io.ErrShortWrite)
}
