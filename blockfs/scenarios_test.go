package blockfs_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nanofs/nanofs/blockfs"
	"github.com/nanofs/nanofs/device/memdevice"
)

func mustMount(t *testing.T, size uint32) (*blockfs.FS, *memdevice.Device) {
	t.Helper()
	dev := memdevice.New(size)
	fs, err := blockfs.Mount(dev, blockfs.Config{Start: 0, End: size, BlockSize: blockfs.BlockSize})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return fs, dev
}

func writeFile(t *testing.T, fs *blockfs.FS, name string, data []byte) {
	t.Helper()
	h, err := fs.Open(name, blockfs.ModeWrite)
	if err != nil {
		t.Fatalf("open %s write: %v", name, err)
	}
	if len(data) > 0 {
		n, err := h.Write(data)
		if err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if n != len(data) {
			t.Fatalf("write %s: wrote %d, want %d", name, n, len(data))
		}
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close %s: %v", name, err)
	}
}

func readAll(t *testing.T, fs *blockfs.FS, name string, bufSize int) []byte {
	t.Helper()
	h, err := fs.Open(name, blockfs.ModeRead)
	if err != nil {
		t.Fatalf("open %s read: %v", name, err)
	}
	buf := make([]byte, bufSize)
	n, err := h.Read(buf)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close %s: %v", name, err)
	}
	return buf[:n]
}

// Scenario 1: mounting a zeroed region yields immediate end-of-enumeration.
func TestScenario1_EmptyVolume(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	name, ok, err := fs.NextFile()
	if err != nil {
		t.Fatalf("next_file: %v", err)
	}
	if ok {
		t.Fatalf("next_file on empty volume returned %q, want end-sentinel", name)
	}
}

// Scenario 2: write a small file, then enumerate it, then see exhaustion.
func TestScenario2_WriteThenEnumerate(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	writeFile(t, fs, "hello.txt", []byte("hi"))

	name, ok, err := fs.NextFile()
	if err != nil {
		t.Fatalf("next_file: %v", err)
	}
	if !ok || name != "hello.txt" {
		t.Fatalf("next_file = %q, %v, want hello.txt, true", name, ok)
	}

	name, ok, err = fs.NextFile()
	if err != nil {
		t.Fatalf("next_file (2nd): %v", err)
	}
	if ok {
		t.Fatalf("next_file (2nd) = %q, %v, want end-sentinel", name, ok)
	}
}

// Scenario 3: round-trip a short string through a single block.
func TestScenario3_RoundTripShortString(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	want := []byte("The quick brown fox")
	writeFile(t, fs, "a.txt", want)

	got := readAll(t, fs, "a.txt", 256)
	if !bytes.Equal(got, want) {
		t.Fatalf("read back %q, want %q", got, want)
	}
}

// Scenario 4: exactly one block's worth of payload stays a single block.
func TestScenario4_ExactSingleBlock(t *testing.T) {
	fs, dev := mustMount(t, 4096)
	payload := bytes.Repeat([]byte{'x'}, blockfs.BlockSize-blockfs.OffsetFirst)
	writeFile(t, fs, "fill.txt", payload)

	snap := dev.Snapshot()
	head := snap[:blockfs.BlockSize]
	flags := blockfs.Flags(leU32(head, 0))
	next := leU32(head, 4)
	size := leU32(head, 8)

	wantFlags := blockfs.FlagUsed | blockfs.FlagFirst | blockfs.FlagLast
	if flags != wantFlags {
		t.Fatalf("flags = %#x, want %#x", flags, wantFlags)
	}
	if next != 0 {
		t.Fatalf("next_blk_addr = %d, want 0", next)
	}
	if size != uint32(len(payload)) {
		t.Fatalf("size = %d, want %d", size, len(payload))
	}
}

// Scenario 5: one byte past a full block spills into a continuation block.
func TestScenario5_SpillOneByte(t *testing.T) {
	fs, dev := mustMount(t, 4096)
	payload := bytes.Repeat([]byte{'y'}, blockfs.BlockSize-blockfs.OffsetFirst+1)
	writeFile(t, fs, "spill.txt", payload)

	got := readAll(t, fs, "spill.txt", 256)
	if !bytes.Equal(got, payload) {
		t.Fatalf("read back %d bytes, want %d identical bytes", len(got), len(payload))
	}

	snap := dev.Snapshot()
	head := snap[:blockfs.BlockSize]
	next := leU32(head, 4)
	if next == 0 {
		t.Fatalf("head block has no next_blk_addr, want a second block")
	}
	second := snap[next : next+blockfs.BlockSize]
	flags := blockfs.Flags(leU32(second, 0))
	size := leU32(second, 8)
	wantFlags := blockfs.FlagUsed | blockfs.FlagCont | blockfs.FlagLast
	if flags != wantFlags {
		t.Fatalf("second block flags = %#x, want %#x", flags, wantFlags)
	}
	if size != 1 {
		t.Fatalf("second block size = %d, want 1", size)
	}
}

// Scenario 6: delete zeroes the head block and drops the file from enumeration.
func TestScenario6_Delete(t *testing.T) {
	fs, dev := mustMount(t, 4096)
	writeFile(t, fs, "d.txt", []byte("foo"))

	if err := fs.Delete("d.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok, err := fs.NextFile(); err != nil || ok {
		t.Fatalf("next_file after delete = ok=%v err=%v, want ok=false", ok, err)
	}

	snap := dev.Snapshot()
	head := snap[:blockfs.BlockSize]
	for i, b := range head {
		if b != 0 {
			t.Fatalf("head block byte %d = %#x, want 0", i, b)
		}
	}
}

func leU32(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}

func TestDeleteThenReopenNotFound(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	writeFile(t, fs, "d.txt", []byte("foo"))
	if err := fs.Delete("d.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := fs.Open("d.txt", blockfs.ModeRead)
	if !blockfs.Is(err, blockfs.KindNotFound) {
		t.Fatalf("open after delete: err = %v, want KindNotFound", err)
	}
}

func TestTwoFilesDoNotOverlap(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	a := bytes.Repeat([]byte{'A'}, 300)
	b := bytes.Repeat([]byte{'B'}, 300)
	writeFile(t, fs, "a.bin", a)
	writeFile(t, fs, "b.bin", b)

	gotA := readAll(t, fs, "a.bin", 1024)
	gotB := readAll(t, fs, "b.bin", 1024)
	if !bytes.Equal(gotA, a) {
		t.Fatalf("a.bin corrupted")
	}
	if !bytes.Equal(gotB, b) {
		t.Fatalf("b.bin corrupted")
	}
	if bytes.Contains(gotA, []byte("B")) || bytes.Contains(gotB, []byte("A")) {
		t.Fatalf("file payloads bled into each other")
	}
}

func TestNextEmptyBlockIdempotentWithoutWrite(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	a, err := fs.NextEmptyBlock()
	if err != nil {
		t.Fatalf("next_empty_block: %v", err)
	}
	b, err := fs.NextEmptyBlock()
	if err != nil {
		t.Fatalf("next_empty_block (2nd): %v", err)
	}
	if a != b {
		t.Fatalf("next_empty_block returned %d then %d, want same address", a, b)
	}
}

func TestWriteZeroBytesProducesEmptyFile(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	writeFile(t, fs, "empty.txt", nil)
	got := readAll(t, fs, "empty.txt", 64)
	if len(got) != 0 {
		t.Fatalf("read back %d bytes from empty file, want 0", len(got))
	}
	name, ok, err := fs.NextFile()
	if err != nil || !ok || name != "empty.txt" {
		t.Fatalf("next_file = %q, %v, %v, want empty.txt, true, nil", name, ok, err)
	}
}

func TestReadPastEndYieldsZero(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	writeFile(t, fs, "short.txt", []byte("ab"))
	h, err := fs.Open("short.txt", blockfs.ModeRead)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	buf := make([]byte, 10)
	n, err := h.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("first read: n=%d err=%v, want 2, nil", n, err)
	}
	n, err = h.Read(buf)
	if err != nil || n != 0 {
		t.Fatalf("read past end: n=%d err=%v, want 0, nil", n, err)
	}
}

func TestOpenNotFoundOnRead(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	_, err := fs.Open("missing.txt", blockfs.ModeRead)
	if !blockfs.Is(err, blockfs.KindNotFound) {
		t.Fatalf("open missing file: err = %v, want KindNotFound", err)
	}
}

func TestOpenBusyOnSecondHandle(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	h, err := fs.Open("a.txt", blockfs.ModeWrite)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	defer h.Close()

	_, err = fs.Open("b.txt", blockfs.ModeWrite)
	if !blockfs.Is(err, blockfs.KindBusy) {
		t.Fatalf("second open: err = %v, want KindBusy", err)
	}
}

func TestAppendSeeksToEndAndExtends(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	writeFile(t, fs, "log.txt", []byte("abc"))

	h, err := fs.Open("log.txt", blockfs.ModeAppend)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := h.Write([]byte("def")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := readAll(t, fs, "log.txt", 64)
	if string(got) != "abcdef" {
		t.Fatalf("got %q, want abcdef", got)
	}
}

func TestNoSpacePreservesPriorWrites(t *testing.T) {
	// 3 blocks total: one gets consumed by the head of "a.txt" up front,
	// leaving exactly 2 free blocks for the write under test.
	size := uint32(blockfs.BlockSize * 3)
	fs, _ := mustMount(t, size)
	writeFile(t, fs, "a.txt", []byte("x"))

	h, err := fs.Open("big.txt", blockfs.ModeWrite)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	payload := bytes.Repeat([]byte{'z'}, (blockfs.BlockSize-blockfs.OffsetFirst)+(blockfs.BlockSize-blockfs.OffsetChunk)+10)
	n, err := h.Write(payload)
	if !blockfs.Is(err, blockfs.KindNoSpace) {
		t.Fatalf("write: err = %v, want KindNoSpace", err)
	}
	if n <= 0 || n >= len(payload) {
		t.Fatalf("write: n = %d, want a short count strictly between 0 and %d", n, len(payload))
	}
	// The two blocks big.txt did manage to claim are exhausted, but the
	// second one is still the handle's current block and was committed
	// intact by Write before the allocator failed, so Close succeeds.
	if err := h.Close(); err != nil {
		t.Fatalf("close after NoSpace: %v", err)
	}

	// a.txt must still read back intact despite big.txt's exhaustion.
	got := readAll(t, fs, "a.txt", 64)
	if string(got) != "x" {
		t.Fatalf("a.txt = %q, want %q", got, "x")
	}
}

func TestFindByNameMatchesUpToFirstNUL(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	writeFile(t, fs, strings.Repeat("n", 31), []byte("payload"))
	got := readAll(t, fs, strings.Repeat("n", 31), 64)
	if string(got) != "payload" {
		t.Fatalf("got %q, want payload", got)
	}
}
