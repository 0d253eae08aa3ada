package pkgfmt

import (
	"io"
)

// Archive is a parsed PKG container: header, best-effort metadata,
// and the resolved file table, bound to a random-access source.
type Archive struct {
	r      io.ReaderAt
	Header *Header
	Meta   *Metadata
	Items  []Entry

	// KeySource selects which header field seeds the cipher; see
	// CipherKeySource. Defaults to DigestKeySource in Open.
	KeySource CipherKeySource
}

// Open parses the PKG header, metadata region, and file table from r.
// r must support random access over the full archive; size is the
// total byte length of the underlying stream (used only for the
// sequential header/metadata reads' EOF bookkeeping).
func Open(r io.ReaderAt, size int64) (*Archive, error) {
	sr := io.NewSectionReader(r, 0, size)

	h, err := ParseHeader(sr)
	if err != nil {
		return nil, err
	}

	meta := ParseMetadata(sr, h)

	a := &Archive{
		r:         r,
		Header:    h,
		Meta:      meta,
		KeySource: DigestKeySource,
	}

	items, err := a.parseFileTable()
	if err != nil {
		return nil, err
	}
	a.Items = items

	return a, nil
}

// decrypterAt returns a Decrypter seeded for this archive's cipher at
// relative offset off within the encrypted data region, or nil if the
// archive is not encrypted.
func (a *Archive) decrypterAt(off int64) (*Decrypter, error) {
	if !a.Header.IsEncrypted {
		return nil, nil
	}
	digest := a.KeySource(a.Header)
	return NewDecrypter(digest, a.Header.Type, off)
}

// parseFileTable implements spec §4.4's ParseFileTable: probe, choose
// a table size, read and decrypt the table, then decode entries.
func (a *Archive) parseFileTable() ([]Entry, error) {
	h := a.Header

	probe := make([]byte, entrySize)
	if err := readAt(a.r, int64(h.DataOffset), probe); err != nil {
		return nil, err
	}
	if dec, err := a.decrypterAt(0); err != nil {
		return nil, err
	} else if dec != nil {
		dec.XORBlocks(probe, probe)
	}

	tableSize, err := probeTableSize(probe, h.DataSize)
	if err != nil {
		return nil, err
	}

	table := make([]byte, tableSize)
	if err := readAt(a.r, int64(h.DataOffset), table); err != nil {
		return nil, err
	}
	if dec, err := a.decrypterAt(0); err != nil {
		return nil, err
	} else if dec != nil {
		dec.XORBlocks(table, table)
	}

	return parseFileTableBytes(table, h.ItemCount, h.DataOffset, h.DataSize), nil
}

// Extent returns the absolute byte offset and size of entry's payload
// within the archive stream (spec §1: "the mapping from file-table
// entries to absolute payload extents", named as a first-class
// operation).
func (a *Archive) Extent(e Entry) (offset, size int64) {
	return e.Offset, e.Size
}

// ExtractFileData reads and, if the archive is encrypted, decrypts
// entry's full payload (spec §4.4's ExtractFileData). Folders and
// zero-size entries return an empty, non-nil slice.
func (a *Archive) ExtractFileData(e Entry) ([]byte, error) {
	if e.IsFolder || e.Size == 0 {
		return []byte{}, nil
	}
	if err := validateExtent(e.Offset, e.Size, int64(a.Header.DataOffset), int64(a.Header.DataSize)); err != nil {
		return nil, err
	}

	buf := make([]byte, e.Size)
	if err := readAt(a.r, e.Offset, buf); err != nil {
		return nil, err
	}

	relOffset := e.Offset - int64(a.Header.DataOffset)
	dec, err := a.decrypterAt(relOffset)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		dec.XORBlocks(buf, buf)
	}

	return buf, nil
}
