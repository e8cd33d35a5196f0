package fuseadapter

import (
	"context"
	"sync"
	"syscall"
	"time"

	fusefs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/nanofs/nanofs/blockfs"
	"github.com/nanofs/nanofs/internal/logging"
	"github.com/nanofs/nanofs/internal/metrics"
)

// Root is the single directory of a mounted nanofs image. Its
// children are regular files, one per name in the volume; there are
// no subdirectories, matching the core's flat namespace.
type Root struct {
	fusefs.Inode

	fs *blockfs.FS

	// known records which names have been given a child Inode by
	// addChildLocked; Unlink drops the name again. Lookup does not
	// consult it: it checks the Inode tree itself (GetChild) before
	// probing the volume for a name created out of band.
	mu    sync.Mutex
	known map[string]bool
}

// NewRoot returns the root node for a FUSE tree backed by fs.
func NewRoot(fs *blockfs.FS) *Root {
	return &Root{fs: fs, known: map[string]bool{}}
}

var _ fusefs.InodeEmbedder = (*Root)(nil)
var _ fusefs.NodeOnAdder = (*Root)(nil)
var _ fusefs.NodeLookuper = (*Root)(nil)
var _ fusefs.NodeCreater = (*Root)(nil)
var _ fusefs.NodeUnlinker = (*Root)(nil)

// OnAdd populates the tree with every file already present in the
// volume at mount time.
func (r *Root) OnAdd(ctx context.Context) {
	r.fs.Lock()
	defer r.fs.Unlock()

	for {
		name, ok, err := r.fs.NextFile()
		if err != nil {
			logging.Errorf("fuseadapter: listing volume: %v", err)
			return
		}
		if !ok {
			return
		}
		r.addChildLocked(ctx, name)
	}
}

// addChildLocked creates (or replaces) the child Inode for name. The
// caller must already hold r.fs's lock.
func (r *Root) addChildLocked(ctx context.Context, name string) *fusefs.Inode {
	leaf := &Leaf{fs: r.fs, name: name}
	child := r.NewPersistentInode(ctx, leaf, fusefs.StableAttr{Mode: syscall.S_IFREG})
	r.AddChild(name, child, true)
	r.mu.Lock()
	r.known[name] = true
	r.mu.Unlock()
	return child
}

// Lookup resolves name to a child, scanning the volume fresh if the
// name isn't already known - this keeps the tree in sync with files
// created by another tool (nanofsctl import) between mounts of the
// same long-running session.
func (r *Root) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fusefs.Inode, syscall.Errno) {
	if child := r.GetChild(name); child != nil {
		return child, 0
	}

	r.fs.Lock()
	defer r.fs.Unlock()

	h, err := r.fs.Open(name, blockfs.ModeRead)
	if blockfs.Is(err, blockfs.KindNotFound) {
		return nil, syscall.ENOENT
	}
	if err != nil {
		logging.Errorf("fuseadapter: lookup %q: %v", name, err)
		return nil, syscall.EIO
	}
	h.Close()

	return r.addChildLocked(ctx, name), 0
}

// Create makes a new, empty file named name and opens it for
// writing, matching blockfs's own create-on-open-for-write behavior.
func (r *Root) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fusefs.Inode, fusefs.FileHandle, uint32, syscall.Errno) {
	r.fs.Lock()
	start := time.Now()
	h, err := r.fs.Open(name, blockfs.ModeWrite)
	r.fs.Unlock()
	metrics.Observe("create", time.Since(start).Seconds(), err)
	if blockfs.Is(err, blockfs.KindBusy) {
		return nil, nil, 0, syscall.EBUSY
	}
	if err != nil {
		logging.Errorf("fuseadapter: create %q: %v", name, err)
		return nil, nil, 0, syscall.EIO
	}

	r.fs.Lock()
	child := r.addChildLocked(ctx, name)
	r.fs.Unlock()

	metrics.OpenHandles.Inc()
	return child, &Handle{fs: r.fs, h: h, writable: true}, 0, 0
}

// Unlink deletes name from the volume and drops it from the tree.
func (r *Root) Unlink(ctx context.Context, name string) syscall.Errno {
	r.fs.Lock()
	start := time.Now()
	err := r.fs.Delete(name)
	r.fs.Unlock()
	metrics.Observe("unlink", time.Since(start).Seconds(), err)

	if blockfs.Is(err, blockfs.KindNotFound) {
		return syscall.ENOENT
	}
	if err != nil {
		logging.Errorf("fuseadapter: delete %q: %v", name, err)
		return syscall.EIO
	}

	r.mu.Lock()
	delete(r.known, name)
	r.mu.Unlock()
	return 0
}
