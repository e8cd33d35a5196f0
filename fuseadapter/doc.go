// Package fuseadapter maps a *blockfs.FS onto a single flat directory
// using github.com/hanwen/go-fuse/v2, so a nanofs image can be used
// with ordinary file tools without going through nanofsctl.
//
// The core only ever allows one open handle at a time, so this
// package does not attempt to paper over that: every operation that
// touches blockfs takes the FS's own lock for its duration, and a
// second concurrent Open is rejected with EBUSY, exactly as blockfs
// itself would report it to a direct caller.
package fuseadapter
