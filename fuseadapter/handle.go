package fuseadapter

import (
	"context"
	"syscall"
	"time"

	fusefs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/nanofs/nanofs/blockfs"
	"github.com/nanofs/nanofs/internal/logging"
	"github.com/nanofs/nanofs/internal/metrics"
)

// Handle wraps the single blockfs.Handle backing one FUSE open file
// descriptor. Every method takes fs's lock for the duration of the
// underlying blockfs call, since a *blockfs.FS serializes at most one
// handle's operations at a time.
type Handle struct {
	fs       *blockfs.FS
	h        *blockfs.Handle
	writable bool
}

var _ fusefs.FileHandle = (*Handle)(nil)
var _ fusefs.FileReader = (*Handle)(nil)
var _ fusefs.FileWriter = (*Handle)(nil)
var _ fusefs.FileFlusher = (*Handle)(nil)
var _ fusefs.FileReleaser = (*Handle)(nil)

// Read ignores off: blockfs.Handle has no independent seek operation
// besides SeekToEnd, so FUSE clients performing out-of-order reads
// (uncommon for this file type) will see the handle's own sequential
// cursor rather than true random access.
func (h *Handle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	h.fs.Lock()
	defer h.fs.Unlock()

	start := time.Now()
	n, err := h.h.Read(dest)
	metrics.Observe("read", time.Since(start).Seconds(), err)
	if err != nil {
		logging.Errorf("fuseadapter: read: %v", err)
		return nil, syscall.EIO
	}
	return fuse.ReadResultData(dest[:n]), 0
}

func (h *Handle) Write(ctx context.Context, data []byte, off int64) (uint32, syscall.Errno) {
	if !h.writable {
		return 0, syscall.EBADF
	}

	h.fs.Lock()
	defer h.fs.Unlock()

	start := time.Now()
	n, err := h.h.Write(data)
	metrics.Observe("write", time.Since(start).Seconds(), err)
	if blockfs.Is(err, blockfs.KindNoSpace) {
		return uint32(n), syscall.ENOSPC
	}
	if err != nil {
		logging.Errorf("fuseadapter: write: %v", err)
		return uint32(n), syscall.EIO
	}
	return uint32(n), 0
}

// Flush is a no-op: blockfs has no notion of flushing short of a full
// Close, and close(2) may be called more than once per open(2) for a
// duplicated descriptor. Finalizing the chain here would double-close
// the single outstanding handle.
func (h *Handle) Flush(ctx context.Context) syscall.Errno {
	return 0
}

// Release closes the underlying blockfs handle, finalizing the chain
// if it was opened for WRITE or APPEND.
func (h *Handle) Release(ctx context.Context) syscall.Errno {
	h.fs.Lock()
	defer h.fs.Unlock()

	start := time.Now()
	err := h.h.Close()
	metrics.Observe("release", time.Since(start).Seconds(), err)
	metrics.OpenHandles.Dec()
	if err != nil {
		logging.Errorf("fuseadapter: release: %v", err)
		return syscall.EIO
	}
	return 0
}
