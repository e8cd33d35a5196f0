/*
Package blockfs implements a block-oriented embedded filesystem for
raw-flash or flash-like storage: a flat namespace of named byte streams
built on top of two abstract block I/O primitives, read and write.

A file is a singly linked chain of fixed-size blocks. There is no
directory, no allocation table, and no in-RAM index: free-block lookup
and filename lookup both scan the device linearly, interpreting each
block's 40-byte header. This trades lookup speed for an implementation
that needs no persistent metadata beyond the blocks themselves, which
matters on devices too small or too primitive to host a proper
superblock.

The package depends only on the Device interface (the block device
backend), which the caller supplies at Mount time. It does not log,
does not know about host files, directory trees, or any of the tools
built around it in this module's other packages - those are external
collaborators, wired in by cmd/nanofsctl, cmd/nanofuse, and
fuseadapter.

A *FS value is not safe for concurrent use. At most one file may be
open against a given *FS at a time; Open returns an error wrapping
KindBusy if a handle is already open. Callers that need to serialize
access from multiple goroutines should guard the *FS with their own
lock (or use the embedded one, see FS.Lock/FS.Unlock).
*/
package blockfs
