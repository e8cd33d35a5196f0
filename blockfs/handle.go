package blockfs

// FileMode selects how Open treats an existing (or missing) file.
type FileMode int

const (
	// ModeRead opens an existing file for reading. Fails with
	// KindNotFound if the name does not exist.
	ModeRead FileMode = iota
	// ModeWrite opens a file for writing. If the name already exists,
	// its head block is reused as-is - this does NOT truncate the
	// file. Subsequent writes append into the first block starting
	// from whatever size and flags it already carries. If the name
	// does not exist, a fresh block is allocated. This is the
	// documented, non-obvious behavior of the original implementation
	// this package is modeled on: whether truncation was intended is
	// an open question left to the maintainer, not guessed at here.
	ModeWrite
	// ModeAppend opens an existing file like ModeWrite, then seeks to
	// the end of its chain before returning. A missing name is created
	// exactly as under ModeWrite (the handle then reports ModeWrite),
	// already positioned at the end of the empty file.
	ModeAppend
)

// Handle is the single open-file cursor. At most one Handle may be
// open against a given FS at a time.
type Handle struct {
	fs       *FS
	mode     FileMode
	startBlk uint32
	curBlk   uint32
	curOff   uint32 // offset within the current block, from the block's start address
}

// Open opens name under mode. See FileMode for the exact semantics of
// each mode, including the non-truncating behavior of ModeWrite on an
// existing file.
func (fs *FS) Open(name string, mode FileMode) (*Handle, error) {
	if err := fs.requireMounted("open"); err != nil {
		return nil, err
	}
	if fs.openHandle != nil {
		return nil, newErrName("open", KindBusy, name)
	}

	addr, found, err := fs.findByName(name)
	if err != nil {
		return nil, err
	}

	var h *Handle
	if found {
		// findByName left the head block, freshly read, in readCache.
		h = &Handle{fs: fs, mode: mode, startBlk: addr, curBlk: addr, curOff: OffsetFirst}
		if mode == ModeAppend {
			if err := h.seekToEnd(); err != nil {
				return nil, err
			}
		}
	} else {
		if mode == ModeRead {
			return nil, newErrName("open", KindNotFound, name)
		}
		chunk, err := fs.nextEmptyBlock()
		if err != nil {
			if !Is(err, KindNoSpace) {
				return nil, err
			}
			return nil, &Error{Op: "open", Kind: KindNoSpace, Name: name}
		}
		fs.readCache.reset()
		fs.readCache.setFlags(FlagUsed | FlagFirst)
		fs.readCache.setName(name)
		h = &Handle{fs: fs, mode: ModeWrite, startBlk: chunk, curBlk: chunk, curOff: OffsetFirst}
	}

	fs.openHandle = h
	return h, nil
}

// SeekToEnd repositions h to one byte past the last written byte of
// the file, by scanning forward in raw block-size strides from the
// start block until a block carrying USED|LAST is found. This walks
// by stride rather than by following next_blk_addr, so it depends on
// the chain's LAST block being reachable by linear scan before any
// unrelated block that happens to carry USED|LAST; well-formed,
// non-overlapping chains satisfy this, but a corrupt volume would not.
// Switching to link-following was considered and rejected here to
// match the documented behavior of the implementation this package
// models - see the design notes on open questions.
func (h *Handle) SeekToEnd() error {
	if err := h.requireOpen("seek_to_end"); err != nil {
		return err
	}
	return h.seekToEnd()
}

func (h *Handle) seekToEnd() error {
	fs := h.fs
	for addr := h.startBlk; addr < fs.cfg.End; addr += fs.cfg.BlockSize {
		if err := loadBlock(fs.dev, addr, fs.readCache); err != nil {
			return wrapErr("seek_to_end", err)
		}
		flags := fs.readCache.flags()
		if flags.has(FlagUsed) && flags.has(FlagLast) {
			h.curBlk = addr
			h.curOff = fs.readCache.size() + uint32(fs.readCache.headerOffset())
			return nil
		}
	}
	return nil
}

// Read copies up to len(p) bytes from the current position into p and
// returns the number of bytes actually copied. It does not check
// h.mode - reads succeed against a handle opened for WRITE or APPEND,
// exactly as the implementation this package models allows.
func (h *Handle) Read(p []byte) (int, error) {
	if err := h.requireOpen("read"); err != nil {
		return 0, err
	}
	fs := h.fs
	var read int
	for read < len(p) {
		if err := loadBlock(fs.dev, h.curBlk, fs.readCache); err != nil {
			return read, wrapErr("read", err)
		}
		headerOff := uint32(fs.readCache.headerOffset())
		cacheEnd := fs.readCache.size() + headerOff
		if cacheEnd <= h.curOff {
			break
		}
		cacheLeft := cacheEnd - h.curOff
		want := uint32(len(p) - read)
		n := want
		if cacheLeft < n {
			n = cacheLeft
		}
		copy(p[read:read+int(n)], fs.readCache.buf[h.curOff:h.curOff+n])
		read += int(n)

		if h.curOff+n >= BlockSize {
			next := fs.readCache.nextAddr()
			if next == 0 {
				// full terminal block (an exact fit): nothing more to
				// follow, even if the caller asked for more.
				break
			}
			h.curBlk = next
			h.curOff = OffsetChunk
		} else {
			h.curOff += n
		}
	}
	return read, nil
}

// Write copies p into the file at the current position, growing the
// chain with freshly allocated blocks as needed, and returns the
// number of bytes actually written. If the allocator runs out of
// space mid-write, Write returns the short count together with an
// error wrapping KindNoSpace; every byte committed before that point
// remains intact in the chain.
func (h *Handle) Write(p []byte) (int, error) {
	if err := h.requireOpen("write"); err != nil {
		return 0, err
	}
	fs := h.fs
	var written int
	for written < len(p) {
		cacheLeft := BlockSize - h.curOff
		want := uint32(len(p) - written)
		w := want
		if cacheLeft < w {
			w = cacheLeft
		}
		if w > 0 {
			copy(fs.readCache.buf[h.curOff:h.curOff+w], p[written:written+int(w)])
			fs.readCache.addSize(w)
		}
		written += int(w)

		if h.curOff+w >= BlockSize && written < len(p) {
			// Block is full and more input remains, so it cannot be the
			// last block. Clear LAST and commit, allocate the next
			// block, patch next_blk_addr in and commit again. This
			// double-commit is intentional: a crash between the two
			// writes leaves a chain whose tail is marked non-last but
			// terminal, rather than a torn single write.
			//
			// An exact fit (this chunk exhausts p right as the block
			// fills) deliberately skips this branch: curOff lands on
			// BlockSize with the block still current. The next Write
			// call rolls it over lazily before placing any new bytes;
			// Close finalizes it in place as the last block otherwise.
			fs.readCache.setFlags(fs.readCache.flags() &^ FlagLast)
			if err := commit(fs.dev, h.curBlk, fs.readCache); err != nil {
				return written, wrapErr("write", err)
			}

			next, err := fs.nextEmptyBlock()
			if err != nil {
				if !Is(err, KindNoSpace) {
					return written, err
				}
				return written, newErr("write", KindNoSpace)
			}
			fs.readCache.setNextAddr(next)
			if err := commit(fs.dev, h.curBlk, fs.readCache); err != nil {
				return written, wrapErr("write", err)
			}

			h.curBlk = next
			h.curOff = OffsetChunk
			fs.readCache.reset()
			fs.readCache.setFlags(FlagUsed | FlagCont)
		} else {
			h.curOff += w
		}
	}
	return written, nil
}

// Close finalizes and invalidates h. If h was opened for WRITE or
// APPEND, the staging block is marked USED|LAST and committed. A
// handle opened for READ has nothing to flush.
func (h *Handle) Close() error {
	if err := h.requireOpen("close"); err != nil {
		return err
	}
	fs := h.fs
	if h.mode == ModeWrite || h.mode == ModeAppend {
		fs.readCache.setFlags(fs.readCache.flags() | FlagUsed | FlagLast)
		if err := commit(fs.dev, h.curBlk, fs.readCache); err != nil {
			fs.openHandle = nil
			return wrapErr("close", err)
		}
	}
	fs.openHandle = nil
	*h = Handle{}
	return nil
}

func (h *Handle) requireOpen(op string) error {
	if h == nil || h.fs == nil || h.fs.openHandle != h {
		return newErr(op, KindInvalidHandle)
	}
	if !h.fs.mounted {
		return newErr(op, KindNotMounted)
	}
	return nil
}

// Delete removes name from the volume. It opens the file for reading,
// then walks the chain by following next_blk_addr, zeroing and
// rewriting each block (which clears USED, returning it to the free
// pool) until the block with next_blk_addr == 0, which is zeroed last.
func (fs *FS) Delete(name string) error {
	if err := fs.requireMounted("delete"); err != nil {
		return err
	}
	h, err := fs.Open(name, ModeRead)
	if err != nil {
		// NotFound (and any other Open failure) propagates as-is.
		return err
	}
	defer func() { fs.openHandle = nil }()

	addr := h.startBlk
	if err := loadBlock(fs.dev, addr, fs.readCache); err != nil {
		return wrapErr("delete", err)
	}
	for {
		next := fs.readCache.nextAddr()
		fs.readCache.reset()
		if err := commit(fs.dev, addr, fs.readCache); err != nil {
			return wrapErr("delete", err)
		}
		if next == 0 {
			break
		}
		addr = next
		if err := loadBlock(fs.dev, addr, fs.readCache); err != nil {
			return wrapErr("delete", err)
		}
	}
	return nil
}
