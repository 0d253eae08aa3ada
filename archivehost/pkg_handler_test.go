package archivehost

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/keystone-archive/pkgcore/pkgfmt"
)

const (
	testHeaderSize = 128
	testEntrySize  = 32
	testNameAlign  = 16
)

func alignUp16(v int) int {
	if r := v % testNameAlign; r != 0 {
		return v + (testNameAlign - r)
	}
	return v
}

// buildPKGImage assembles a minimal, self-consistent encrypted PKG
// image with one bootstrap folder entry (whose on-disk fields double
// as the file table's size probe, per the container format) and one
// real file entry holding payload.
func buildPKGImage(t *testing.T, digest [16]byte, name string, payload []byte) []byte {
	t.Helper()
	be := binary.BigEndian

	bootstrapName := []byte(".")
	realName := []byte(name)

	fixedLen := 2 * testEntrySize
	nameRegionLen := alignUp16(len(bootstrapName)) + alignUp16(len(realName))
	tableLen := fixedLen + nameRegionLen

	table := make([]byte, tableLen)
	putEntry := func(i int, nameOffset, nameLen uint32, dataOffset, dataSize uint64, entryType byte) {
		start := i * testEntrySize
		be.PutUint32(table[start:start+4], nameOffset)
		be.PutUint32(table[start+4:start+8], nameLen)
		be.PutUint64(table[start+8:start+16], dataOffset)
		be.PutUint64(table[start+16:start+24], dataSize)
		be.PutUint32(table[start+24:start+28], uint32(entryType)<<24)
	}
	putEntry(0, 0, uint32(len(bootstrapName)), uint64(tableLen), uint64(tableLen), 5) // folder
	putEntry(1, uint32(alignUp16(len(bootstrapName))), uint32(len(realName)), uint64(tableLen), uint64(len(payload)), 4)

	cursor := fixedLen
	copy(table[cursor:], bootstrapName)
	cursor += alignUp16(len(bootstrapName))
	copy(table[cursor:], realName)

	dataOffset := uint64(testHeaderSize)
	dataSize := uint64(tableLen) + uint64(len(payload))
	totalSize := dataOffset + dataSize

	header := make([]byte, testHeaderSize)
	copy(header[0:4], []byte{0x7F, 'P', 'K', 'G'})
	be.PutUint16(header[4:6], 1)
	be.PutUint16(header[6:8], 1) // TypePS3
	be.PutUint32(header[20:24], 2)
	be.PutUint64(header[24:32], totalSize)
	be.PutUint64(header[32:40], dataOffset)
	be.PutUint64(header[40:48], dataSize)
	copy(header[96:112], digest[:])

	dec, err := pkgfmt.NewDecrypter(digest, pkgfmt.TypePS3, 0)
	if err != nil {
		t.Fatalf("NewDecrypter() error = %v", err)
	}
	encTable := make([]byte, len(table))
	dec.XORBlocks(encTable, table)

	payloadDec, err := pkgfmt.NewDecrypter(digest, pkgfmt.TypePS3, int64(tableLen))
	if err != nil {
		t.Fatalf("NewDecrypter() error = %v", err)
	}
	encPayload := make([]byte, len(payload))
	payloadDec.XORBlocks(encPayload, payload)

	buf := make([]byte, 0, totalSize)
	buf = append(buf, header...)
	buf = append(buf, encTable...)
	buf = append(buf, encPayload...)
	return buf
}

func TestPKGHandler_OpenAndExtract(t *testing.T) {
	digest := [16]byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	payload := []byte("raw bytes straight through, not compressed")

	img := buildPKGImage(t, digest, "DATA.BIN", payload)

	h := &PKGHandler{}
	if err := h.Open(bytes.NewReader(img), int64(len(img))); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if h.NumItems() != 2 {
		t.Fatalf("NumItems() = %d, want 2", h.NumItems())
	}

	var fileIdx = -1
	for i := 0; i < h.NumItems(); i++ {
		info, err := h.Item(i)
		if err != nil {
			t.Fatalf("Item(%d) error = %v", i, err)
		}
		if !info.IsDirectory {
			fileIdx = i
		}
	}
	if fileIdx < 0 {
		t.Fatal("no file entry found")
	}

	got, err := h.Extract(fileIdx)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Extract() = %q, want %q", got, payload)
	}
}

func TestPKGHandler_Extract_InflatesZlibPayload(t *testing.T) {
	digest := [16]byte{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	want := []byte("deflate me, then decrypt me, then hand me back raw")
	if _, err := zw.Write(want); err != nil {
		t.Fatalf("zlib.Write() error = %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib.Close() error = %v", err)
	}

	img := buildPKGImage(t, digest, "DATA.Z", buf.Bytes())

	h := &PKGHandler{}
	if err := h.Open(bytes.NewReader(img), int64(len(img))); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	fileIdx := -1
	for i := 0; i < h.NumItems(); i++ {
		info, err := h.Item(i)
		if err != nil {
			t.Fatalf("Item(%d) error = %v", i, err)
		}
		if !info.IsDirectory {
			fileIdx = i
		}
	}
	if fileIdx < 0 {
		t.Fatal("no file entry found")
	}

	got, err := h.Extract(fileIdx)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestPKGHandler_IndexOutOfRange(t *testing.T) {
	digest := [16]byte{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
	img := buildPKGImage(t, digest, "X.BIN", []byte("x"))

	h := &PKGHandler{}
	if err := h.Open(bytes.NewReader(img), int64(len(img))); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := h.Item(99); err == nil {
		t.Error("Item(99) error = nil, want out-of-range error")
	}
	if _, err := h.Extract(-1); err == nil {
		t.Error("Extract(-1) error = nil, want out-of-range error")
	}
}
