package ufs

import (
	"io"

	"github.com/zeebo/blake3"
)

// FileInfo describes a file as seen through one of its descriptors.
type FileInfo struct {
	Name     string
	Size     int
	Blocks   int
	Refs     int
	Deleted  bool
	Position int
}

// Usage is a snapshot of the resources held by a [FileSystem].
type Usage struct {
	Files       int
	Blocks      int
	Bytes       uint64
	Descriptors int
}

// Stat returns information about the file behind the descriptor.
func (fs *FileSystem) Stat(fd FD) (FileInfo, error) {
	d, f, err := fs.descriptor(fd)
	if err != nil {
		return FileInfo{}, fs.result("stat", err)
	}

	return FileInfo{
		Name:     f.name,
		Size:     f.size,
		Blocks:   f.blocks,
		Refs:     f.refs,
		Deleted:  f.deleted,
		Position: d.pos,
	}, fs.result("stat", nil)
}

// Seek moves the cursor of the descriptor to pos, clamped to the bounds of
// the file, and returns the new position.
func (fs *FileSystem) Seek(fd FD, pos int) (int, error) {
	d, f, err := fs.descriptor(fd)
	if err != nil {
		return 0, fs.result("seek", err)
	}

	d.pos = max(0, min(pos, f.size))

	return d.pos, fs.result("seek", nil)
}

// Usage returns how many files, blocks and descriptors are currently live.
// Deleted files still held open by descriptors are included.
func (fs *FileSystem) Usage() Usage {
	return Usage{
		Files:       fs.files.Len(),
		Blocks:      fs.blocks.Len(),
		Bytes:       uint64(fs.blocks.Len()) * uint64(fs.blockSize), //nolint:gosec
		Descriptors: fs.fds.Len(),
	}
}

// Sum returns the BLAKE3 digest of the whole content of the file behind the
// descriptor. The cursor of the descriptor is not moved.
func (fs *FileSystem) Sum(fd FD) ([]byte, error) {
	_, f, err := fs.descriptor(fd)
	if err != nil {
		return nil, fs.result("sum", err)
	}

	hasher := blake3.New()
	if _, err := io.Copy(hasher, &fileReader{fs: fs, f: f}); err != nil {
		return nil, fs.result("sum", err)
	}

	return hasher.Sum(nil), fs.result("sum", nil)
}

// fileReader reads the content of a file from its start, independent of any
// descriptor.
type fileReader struct {
	fs  *FileSystem
	f   *file
	pos int
}

func (r *fileReader) Read(p []byte) (int, error) {
	if r.pos >= r.f.size {
		return 0, io.EOF
	}

	n := r.fs.readAt(r.f, p, r.pos)
	r.pos += n

	return n, nil
}
