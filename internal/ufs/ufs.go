// Package ufs implements an in-memory file storage exposing a POSIX-like
// file descriptor API.
//
// Files are chains of fixed-size blocks that grow lazily as data is written.
// A file can be open through many descriptors at once, each with its own
// cursor. Deleting a file hides its name immediately, while its data stays
// reachable through already open descriptors until the last one is closed.
//
// A [FileSystem] is not safe for concurrent use by multiple goroutines. It is
// meant to be used from a single goroutine or from coroutines of a single
// cooperative scheduler, where calls never interleave.
package ufs

import (
	"fmt"

	"github.com/DanilR266/sysprog/internal/arena"
)

const (
	// DefaultBlockSize is the block size used when none is configured.
	DefaultBlockSize = 512

	// DefaultMaxFileSize is the maximum file size used when none is
	// configured.
	DefaultMaxFileSize = 100 * 1024 * 1024
)

// OpenFlag modifies the behavior of [FileSystem.Open].
type OpenFlag int

const (
	// Create creates the file if it does not exist.
	Create OpenFlag = 1 << iota
)

// Options configures a [FileSystem]. Zero sizes select the defaults.
type Options struct {
	BlockSize   int
	MaxFileSize int
	Resize      bool
}

// FD is an open file descriptor. Its index is a small non-negative integer,
// reused after the descriptor is closed; the descriptor itself is never
// valid again after closing, even once its index was reused.
type FD struct {
	arena.Handle
}

type descriptor struct {
	file arena.Handle
	pos  int
}

// FileSystem holds all files, their blocks and the open descriptors.
type FileSystem struct {
	blockSize   int
	maxFileSize int
	resize      bool

	blocks *arena.Arena[block]
	files  *arena.Arena[file]
	fds    *arena.Arena[descriptor]
	names  map[string]arena.Handle

	errno ErrorCode
}

// New returns a pointer to a new, empty [FileSystem].
func New(opts Options) *FileSystem {
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	return &FileSystem{
		blockSize:   opts.BlockSize,
		maxFileSize: opts.MaxFileSize,
		resize:      opts.Resize,
		blocks:      arena.New[block](),
		files:       arena.New[file](),
		fds:         arena.New[descriptor](),
		names:       make(map[string]arena.Handle),
	}
}

// BlockSize returns the size of a single block in bytes.
func (fs *FileSystem) BlockSize() int {
	return fs.blockSize
}

// MaxFileSize returns the maximum size of a single file in bytes.
func (fs *FileSystem) MaxFileSize() int {
	return fs.maxFileSize
}

// Errno returns the error code recorded by the last operation.
func (fs *FileSystem) Errno() ErrorCode {
	return fs.errno
}

// SetErrno overrides the recorded error code.
func (fs *FileSystem) SetErrno(code ErrorCode) {
	fs.errno = code
}

func (fs *FileSystem) result(op string, err error) error {
	fs.errno = codeOf(err)

	if err != nil {
		return fmt.Errorf("(ufs-%s) %w", op, err)
	}

	return nil
}

// descriptor resolves an open descriptor and the file it refers to.
func (fs *FileSystem) descriptor(fd FD) (*descriptor, *file, error) {
	d, ok := fs.fds.Get(fd.Handle)
	if !ok {
		return nil, nil, ErrNoFile
	}

	f, ok := fs.files.Get(d.file)
	if !ok {
		return nil, nil, ErrNoFile
	}

	return d, f, nil
}

// Open opens the file with the given name and returns a new descriptor
// positioned at its start. Unknown and deleted names fail with [ErrNoFile],
// unless [Create] is given, in which case a new empty file is created.
func (fs *FileSystem) Open(name string, flags OpenFlag) (FD, error) {
	h, f, ok := fs.findFile(name)
	if !ok {
		if flags&Create == 0 {
			return FD{}, fs.result("open", ErrNoFile)
		}
		h, f = fs.createFile(name)
	}

	f.refs++
	fd := FD{fs.fds.Alloc(&descriptor{file: h})}

	return fd, fs.result("open", nil)
}

// Write writes p at the position of the descriptor and advances it. Writes
// that would grow the file beyond the maximum file size are truncated, and
// the truncated count is returned. If no byte can be written at all, the
// write fails with [ErrNoMem].
func (fs *FileSystem) Write(fd FD, p []byte) (int, error) {
	n, err := fs.write(fd, p)

	return n, fs.result("write", err)
}

func (fs *FileSystem) write(fd FD, p []byte) (int, error) {
	d, f, err := fs.descriptor(fd)
	if err != nil {
		return 0, err
	}

	if len(p) == 0 {
		return 0, nil
	}

	n := min(len(p), fs.maxFileSize-d.pos)
	if n <= 0 {
		return 0, ErrNoMem
	}

	blk, err := fs.blockAt(f, d.pos/fs.blockSize, true)
	if err != nil {
		return 0, err
	}
	off := d.pos % fs.blockSize

	written := 0
	for {
		chunk := blk.writeAt(p[written:n], off)
		written += chunk
		d.pos += chunk
		f.size = max(f.size, d.pos)

		if written == n {
			break
		}

		off = 0
		if blk.next.IsNil() {
			if blk, err = fs.appendBlock(f); err != nil {
				return written, nil
			}
		} else {
			blk = fs.block(blk.next)
		}
	}

	return written, nil
}

// Read reads up to len(p) bytes from the position of the descriptor and
// advances it. At the end of the file it returns 0 without an error.
func (fs *FileSystem) Read(fd FD, p []byte) (int, error) {
	n, err := fs.read(fd, p)

	return n, fs.result("read", err)
}

func (fs *FileSystem) read(fd FD, p []byte) (int, error) {
	d, f, err := fs.descriptor(fd)
	if err != nil {
		return 0, err
	}

	n := fs.readAt(f, p, d.pos)
	d.pos += n

	return n, nil
}

// readAt copies file data starting at pos into p, without any cursor.
func (fs *FileSystem) readAt(f *file, p []byte, pos int) int {
	n := min(len(p), f.size-pos)
	if n <= 0 {
		return 0
	}

	blk, _ := fs.blockAt(f, pos/fs.blockSize, false)
	off := pos % fs.blockSize

	read := 0
	for blk != nil && read < n {
		read += copy(p[read:n], blk.buf[off:])
		off = 0
		blk = fs.block(blk.next)
	}

	return read
}

// Close closes the descriptor. Closing the last descriptor of a deleted file
// destroys the file.
func (fs *FileSystem) Close(fd FD) error {
	d, f, err := fs.descriptor(fd)
	if err != nil {
		return fs.result("close", err)
	}

	f.refs--
	if f.refs == 0 && f.deleted {
		fs.destroyFile(d.file, f)
	}
	fs.fds.Free(fd.Handle)

	return fs.result("close", nil)
}

// Delete removes the name of a file. The file itself is destroyed right away
// if no descriptor is open on it, otherwise once the last one is closed.
func (fs *FileSystem) Delete(name string) error {
	h, f, ok := fs.findFile(name)
	if !ok {
		return fs.result("delete", ErrNoFile)
	}

	f.deleted = true
	delete(fs.names, name)

	if f.refs == 0 {
		fs.destroyFile(h, f)
	}

	return fs.result("delete", nil)
}

// Destroy frees all files and descriptors regardless of any open references,
// leaving the file system in its initial state. Descriptors issued before
// stay invalid.
func (fs *FileSystem) Destroy() {
	fs.fds.Clear()
	fs.files.Clear()
	fs.blocks.Clear()
	clear(fs.names)
	fs.errno = ErrCodeNone
}
