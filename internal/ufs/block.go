package ufs

import (
	"github.com/DanilR266/sysprog/internal/arena"
)

// block is a fixed-capacity node in the block chain of a file.
type block struct {
	buf      []byte
	occupied int
	prev     arena.Handle
	next     arena.Handle
}

func newBlock(size int) *block {
	return &block{
		buf: make([]byte, size),
	}
}

// chunk copies as much of src into the block at off as fits, and returns the
// amount of bytes copied.
func (blk *block) writeAt(src []byte, off int) int {
	n := copy(blk.buf[off:], src)
	blk.occupied = max(blk.occupied, off+n)

	return n
}

// truncate drops everything from off on, zeroing the dropped bytes so that a
// later growth of the file reads zeros there.
func (blk *block) truncate(off int) {
	clear(blk.buf[off:])
	blk.occupied = min(blk.occupied, off)
}
