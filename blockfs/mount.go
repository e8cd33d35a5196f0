package blockfs

import "sync"

// FS is a mounted filesystem bound to one Device and region. It holds
// the two staging buffers, the enumeration cursor, and the (at most
// one) open handle. An FS is not safe for concurrent use; callers
// driving it from multiple goroutines should hold Lock/Unlock around
// every operation, or serialize some other way.
type FS struct {
	sync.Mutex

	dev     Device
	cfg     Config
	mounted bool

	// scanCursor is where the next NextFile call resumes. Reset to
	// cfg.Start on Mount.
	scanCursor uint32

	// readCache holds the currently open file's working block.
	// seekCache is used by scans (NextEmptyBlock, NextFile,
	// findByName) so they never clobber a write in progress. Keeping
	// these distinct is load-bearing: merging them corrupts in-flight
	// writes whenever a scan runs concurrently with an open handle
	// (e.g. a FUSE readdir while a file is being written).
	readCache *block
	seekCache *block

	openHandle *Handle
}

// Mount binds a new FS to dev over the region described by cfg. It
// does not validate the backing region beyond cfg.Validate() - there
// is no superblock, so a zero-filled region is simply an empty,
// valid filesystem.
func Mount(dev Device, cfg Config) (*FS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fs := &FS{
		dev:        dev,
		cfg:        cfg,
		mounted:    true,
		scanCursor: cfg.Start,
		readCache:  &block{},
		seekCache:  &block{},
	}
	return fs, nil
}

// Unmount releases the staging buffers and marks fs unusable. Any
// handle still open against fs is invalidated without being
// finalized - callers must Close before Unmount.
func (fs *FS) Unmount() error {
	if !fs.mounted {
		return newErr("unmount", KindNotMounted)
	}
	fs.mounted = false
	fs.readCache = nil
	fs.seekCache = nil
	fs.openHandle = nil
	return nil
}

func (fs *FS) requireMounted(op string) error {
	if !fs.mounted {
		return newErr(op, KindNotMounted)
	}
	return nil
}
