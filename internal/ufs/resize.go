package ufs

// Resize changes the size of the file behind the descriptor. Shrinking frees
// the blocks past the new end and moves the cursor of every descriptor open
// on the file back to the new end if it was beyond. Growing appends zeros.
// Sizes outside of [0, MaxFileSize] fail with [ErrNoMem].
func (fs *FileSystem) Resize(fd FD, size int) error {
	return fs.result("resize", fs.resizeFile(fd, size))
}

func (fs *FileSystem) resizeFile(fd FD, size int) error {
	if !fs.resize {
		return ErrNotImplemented
	}

	d, f, err := fs.descriptor(fd)
	if err != nil {
		return err
	}

	if size < 0 || size > fs.maxFileSize {
		return ErrNoMem
	}

	keep := (size + fs.blockSize - 1) / fs.blockSize

	switch {
	case size < f.size:
		fs.truncateChain(f, keep)
		if blk := fs.block(f.tail); blk != nil {
			blk.truncate(size - (keep-1)*fs.blockSize)
		}

		f.size = size
		for _, other := range fs.fds.All() {
			if other.file == d.file {
				other.pos = min(other.pos, size)
			}
		}

	case size > f.size:
		if blk := fs.block(f.tail); blk != nil {
			blk.occupied = min(fs.blockSize, size-(f.blocks-1)*fs.blockSize)
		}

		for f.blocks < keep {
			blk, err := fs.appendBlock(f)
			if err != nil {
				return err
			}
			blk.occupied = min(fs.blockSize, size-(f.blocks-1)*fs.blockSize)
		}

		f.size = size
	}

	return nil
}
