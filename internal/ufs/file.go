package ufs

import (
	"log/slog"

	"github.com/DanilR266/sysprog/internal/arena"
	"github.com/dustin/go-humanize"
)

// file is a named, reference counted chain of blocks.
type file struct {
	name    string
	head    arena.Handle
	tail    arena.Handle
	blocks  int
	size    int
	refs    int
	deleted bool
}

func (fs *FileSystem) block(h arena.Handle) *block {
	blk, _ := fs.blocks.Get(h)

	return blk
}

// appendBlock links a fresh block as the new tail of the chain.
func (fs *FileSystem) appendBlock(f *file) (*block, error) {
	if f.size >= fs.maxFileSize {
		return nil, ErrNoMem
	}

	blk := newBlock(fs.blockSize)
	h := fs.blocks.Alloc(blk)

	if f.tail.IsNil() {
		f.head = h
	} else {
		fs.block(f.tail).next = h
		blk.prev = f.tail
	}
	f.tail = h
	f.blocks++

	return blk, nil
}

// blockAt walks the chain from its head to the block with the given index.
// If the chain ends right before that index and extend is set, a new block
// is appended. A nil block is returned if the index is beyond the chain.
func (fs *FileSystem) blockAt(f *file, index int, extend bool) (*block, error) {
	if index == f.blocks && extend {
		return fs.appendBlock(f)
	}

	h := f.head
	for i := 0; i < index && !h.IsNil(); i++ {
		h = fs.block(h).next
	}

	if h.IsNil() {
		return nil, nil
	}

	return fs.block(h), nil
}

// truncateChain keeps the first keep blocks of the chain and frees the rest.
func (fs *FileSystem) truncateChain(f *file, keep int) {
	if keep >= f.blocks {
		return
	}

	h := f.tail
	for f.blocks > keep {
		blk := fs.block(h)
		prev := blk.prev
		fs.blocks.Free(h)
		f.blocks--
		h = prev
	}

	f.tail = h
	if h.IsNil() {
		f.head = arena.Nil
	} else {
		fs.block(h).next = arena.Nil
	}
}

// findFile returns the visible (not deleted) file with the given name.
func (fs *FileSystem) findFile(name string) (arena.Handle, *file, bool) {
	h, ok := fs.names[name]
	if !ok {
		return arena.Nil, nil, false
	}

	f, ok := fs.files.Get(h)

	return h, f, ok
}

func (fs *FileSystem) createFile(name string) (arena.Handle, *file) {
	f := &file{name: name}
	h := fs.files.Alloc(f)
	fs.names[name] = h

	slog.Debug("Created file.", "name", name)

	return h, f
}

// destroyFile frees the blocks of the file and removes it from the file
// table.
func (fs *FileSystem) destroyFile(h arena.Handle, f *file) {
	slog.Debug("Destroying file.",
		"name", f.name,
		"size", humanize.IBytes(uint64(f.size)), //nolint:gosec
		"blocks", f.blocks,
	)

	fs.truncateChain(f, 0)
	fs.files.Free(h)

	if cur, ok := fs.names[f.name]; ok && cur == h {
		delete(fs.names, f.name)
	}
}
