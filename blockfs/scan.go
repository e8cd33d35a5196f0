package blockfs

// NextEmptyBlock scans the region from Start to End in BlockSize
// strides, reading only the 40-byte header of each block, and returns
// the address of the first block whose USED flag is clear. Calling it
// twice without an intervening write returns the same address: the
// scan has no memory of blocks it has already offered.
func (fs *FS) NextEmptyBlock() (uint32, error) {
	if err := fs.requireMounted("next_empty_block"); err != nil {
		return 0, err
	}
	return fs.nextEmptyBlock()
}

func (fs *FS) nextEmptyBlock() (uint32, error) {
	for addr := fs.cfg.Start; addr < fs.cfg.End; addr += fs.cfg.BlockSize {
		if err := loadHeader(fs.dev, addr, fs.seekCache); err != nil {
			return 0, wrapErr("next_empty_block", err)
		}
		if !fs.seekCache.flags().has(FlagUsed) {
			return addr, nil
		}
	}
	return 0, newErr("next_empty_block", KindNoSpace)
}

// NextFile advances the enumeration cursor to the next file head in
// the region and returns its name. ok is false once every file has
// been visited; the cursor then sits at End and a further call
// returns ok == false again (not an error - this mirrors readdir
// exhaustion). Mount resets the cursor. NextFile is not reentrant:
// only one enumeration may be in progress against a given FS.
func (fs *FS) NextFile() (name string, ok bool, err error) {
	if err := fs.requireMounted("next_file"); err != nil {
		return "", false, err
	}
	for addr := fs.scanCursor; addr < fs.cfg.End; addr += fs.cfg.BlockSize {
		if err := loadHeader(fs.dev, addr, fs.seekCache); err != nil {
			return "", false, wrapErr("next_file", err)
		}
		if !fs.seekCache.flags().has(FlagFirst) {
			continue
		}
		fs.scanCursor = addr + fs.cfg.BlockSize
		if err := loadBlock(fs.dev, addr, fs.seekCache); err != nil {
			return "", false, wrapErr("next_file", err)
		}
		return fs.seekCache.name(), true, nil
	}
	fs.scanCursor = fs.cfg.End
	return "", false, nil
}

// findByName performs a linear scan for the head block of name,
// reading full blocks into readCache (it is always called as part of
// Open, which is about to take ownership of readCache for the
// resulting handle).
func (fs *FS) findByName(name string) (addr uint32, found bool, err error) {
	for a := fs.cfg.Start; a < fs.cfg.End; a += fs.cfg.BlockSize {
		if err := loadBlock(fs.dev, a, fs.readCache); err != nil {
			return 0, false, wrapErr("open", err)
		}
		flags := fs.readCache.flags()
		if flags.has(FlagUsed) && flags.has(FlagFirst) && fs.readCache.name() == name {
			return a, true, nil
		}
	}
	return 0, false, nil
}
