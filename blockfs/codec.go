package blockfs

import (
	"bytes"
	"encoding/binary"
)

// Flags is the block header bitfield.
type Flags uint32

const (
	// FlagUsed marks a block as part of a file chain.
	FlagUsed Flags = 1 << 0
	// FlagFirst marks the head block of a chain; it alone carries
	// the filename.
	FlagFirst Flags = 1 << 1
	// FlagCont marks an interior block of a chain.
	FlagCont Flags = 1 << 2
	// FlagLast marks the tail block of a chain.
	FlagLast Flags = 1 << 3
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Layout constants. Offsets and sizes are fixed: the codec is only
// defined for 256-byte blocks.
const (
	BlockSize = 256

	offFlags = 0
	offNext  = 4
	offSize  = 8
	offName  = 12

	// HeaderSize is the number of leading bytes that carry flags,
	// next-block address and size - enough to decide what a block is
	// without reading its payload.
	HeaderSize = 40

	// NameSize is the width of the NUL-padded filename field in a
	// first block.
	NameSize = 32

	// OffsetFirst is where payload begins in a first block (after the
	// 12-byte common header plus the 32-byte name field).
	OffsetFirst = 44
	// OffsetChunk is where payload begins in a continuation block.
	OffsetChunk = 12
)

// block is an in-memory staging copy of one on-device block. Every
// field access goes through accessor methods so the wire format stays
// confined to this file.
type block struct {
	buf [BlockSize]byte
}

func (b *block) flags() Flags {
	return Flags(binary.LittleEndian.Uint32(b.buf[offFlags:]))
}

func (b *block) setFlags(f Flags) {
	binary.LittleEndian.PutUint32(b.buf[offFlags:], uint32(f))
}

func (b *block) nextAddr() uint32 {
	return binary.LittleEndian.Uint32(b.buf[offNext:])
}

func (b *block) setNextAddr(addr uint32) {
	binary.LittleEndian.PutUint32(b.buf[offNext:], addr)
}

func (b *block) size() uint32 {
	return binary.LittleEndian.Uint32(b.buf[offSize:])
}

func (b *block) setSize(n uint32) {
	binary.LittleEndian.PutUint32(b.buf[offSize:], n)
}

func (b *block) addSize(n uint32) {
	b.setSize(b.size() + n)
}

// name returns the NUL-terminated filename stored in a first block.
func (b *block) name() string {
	raw := b.buf[offName : offName+NameSize]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		return string(raw[:i])
	}
	return string(raw)
}

// setName copies name into the filename field, truncating to NameSize
// bytes. The caller is expected to have zeroed the block first, which
// leaves the remainder NUL-padded.
func (b *block) setName(name string) {
	copy(b.buf[offName:offName+NameSize], name)
}

// headerOffset returns the payload start offset for this block, given
// whether it is a first block.
func (b *block) headerOffset() int {
	if b.flags().has(FlagFirst) {
		return OffsetFirst
	}
	return OffsetChunk
}

func (b *block) reset() {
	for i := range b.buf {
		b.buf[i] = 0
	}
}

// loadHeader reads only the 40-byte header of the block at addr into
// buf, leaving the rest of buf untouched. Used by scans that only need
// to inspect flags, not payload.
func loadHeader(dev Device, addr uint32, buf *block) error {
	return dev.ReadAt(addr, buf.buf[:HeaderSize])
}

// loadBlock reads the full 256-byte block at addr into buf.
func loadBlock(dev Device, addr uint32, buf *block) error {
	return dev.ReadAt(addr, buf.buf[:])
}

// commit writes the full 256-byte block in buf back to addr.
func commit(dev Device, addr uint32, buf *block) error {
	return dev.WriteAt(addr, buf.buf[:])
}
