package pkgfmt

import (
	"encoding/binary"
	"io"
	"strings"
)

// Entry is the derived, caller-facing view of one file-table entry
// (spec §3's "PKG file descriptor"): an absolute payload extent plus
// the resolved, slash-normalized path.
type Entry struct {
	Path     string
	Offset   int64 // absolute offset into the archive stream
	Size     int64
	Flags    uint32
	Type     EntryType
	IsFolder bool
}

// rawEntry mirrors the 32-byte, big-endian on-disk file-table entry
// (spec §3) before name resolution and offset absolutization.
type rawEntry struct {
	nameOffset uint32
	nameLen    uint32
	dataOffset uint64
	dataSize   uint64
	flags      uint32
}

func parseRawEntry(b []byte) rawEntry {
	be := binary.BigEndian
	return rawEntry{
		nameOffset: be.Uint32(b[0:4]),
		nameLen:    be.Uint32(b[4:8]),
		dataOffset: be.Uint64(b[8:16]),
		dataSize:   be.Uint64(b[16:24]),
		flags:      be.Uint32(b[24:28]),
		// b[28:32] is padding, intentionally unread.
	}
}

// probeTableSize reads the 32-byte probe at the start of the
// (decrypted) file table region and picks between the two candidate
// table sizes embedded at byte offsets 8 and 16, per spec §4.4 step 2.
func probeTableSize(probe []byte, dataSize uint64) (uint64, error) {
	if len(probe) < 24 {
		return 0, newErr("ParseFileTable", ShortRead, "probe shorter than 24 bytes")
	}
	be := binary.BigEndian
	size1 := be.Uint64(probe[8:16])
	size2 := be.Uint64(probe[16:24])

	size := size1
	if size2 > 0 && size2 < dataSize {
		size = size2
	}
	if size == 0 || size > dataSize {
		return 0, newErr("ParseFileTable", Malformed, "chosen table size is zero or exceeds data_size")
	}
	return size, nil
}

// parseFileTableBytes decodes the already-decrypted table buffer
// (item_count fixed entries followed by a packed name region) into
// Entry values with absolute offsets relative to dataOffset. Entries
// failing the bounds checks in spec §4.4 step 4 / §8 property 9 are
// silently dropped, not fatal.
func parseFileTableBytes(table []byte, itemCount uint32, dataOffset, dataSize uint64) []Entry {
	entries := make([]Entry, 0, itemCount)

	nameReadOffset := uint64(itemCount) * entrySize

	for i := uint32(0); i < itemCount; i++ {
		start := i * entrySize
		if uint64(start)+entrySize > uint64(len(table)) {
			break
		}
		raw := parseRawEntry(table[start : start+entrySize])

		if raw.nameLen == 0 || raw.nameLen > maxNameLen {
			continue
		}
		if raw.dataOffset > dataSize {
			continue
		}

		var name string
		if nameReadOffset+uint64(raw.nameLen) <= uint64(len(table)) {
			name = resolveName(table[nameReadOffset : nameReadOffset+uint64(raw.nameLen)])
			nameReadOffset += uint64(raw.nameLen)
			nameReadOffset = alignUp(nameReadOffset, nameAlign)
		} else {
			name = syntheticName(i)
			// The name region ran out: every remaining entry also
			// gets a synthetic name (spec §4.4, §8 S6), so there is
			// no further cursor to advance.
			nameReadOffset = uint64(len(table))
		}

		entryType := EntryType(raw.flags >> entryFlagsTypeShift)
		entries = append(entries, Entry{
			Path:     name,
			Offset:   int64(dataOffset + raw.dataOffset),
			Size:     int64(raw.dataSize),
			Flags:    raw.flags,
			Type:     entryType,
			IsFolder: entryType == EntryFolder,
		})
	}

	return entries
}

// resolveName truncates at the first NUL and rewrites Windows-style
// path separators to '/', per spec §4.4 step 4.
func resolveName(b []byte) string {
	n := len(b)
	for i, c := range b {
		if c == 0 {
			n = i
			break
		}
	}
	return strings.ReplaceAll(string(b[:n]), "\\", "/")
}

func syntheticName(index uint32) string {
	return "file_" + itoa(index)
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var digits [10]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

func alignUp(v, align uint64) uint64 {
	rem := v % align
	if rem == 0 {
		return v
	}
	return v + (align - rem)
}

// readAt reads exactly len(buf) bytes from r at offset off, surfacing
// a short read as a ShortRead *Error (spec §7) rather than io.EOF.
func readAt(r io.ReaderAt, off int64, buf []byte) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return wrapErr("readAt", ShortRead, err)
}
