package pkgfmt

import "io"

// EntryReader is a seekable view over one entry's decrypted plaintext
// bytes. Unlike ExtractFileData (which materializes the whole
// payload), EntryReader decrypts only the 16-byte-aligned blocks that
// cover the requested range, reconstructing the keystream counter at
// the seek target each time — the random-access contract spec §1
// calls out for the keystream, and the "virtual file over chunked
// ciphertext" shape is grounded on the teacher's streamingFile
// (streaming.go).
//
// EntryReader never decompresses; bzip2x is applied by the caller
// after the plaintext bytes are read, per the Non-goal against a
// streaming PKG decompression API.
type EntryReader struct {
	a   *Archive
	e   Entry
	pos int64
}

// OpenEntry returns an EntryReader over e's plaintext bytes.
func (a *Archive) OpenEntry(e Entry) (*EntryReader, error) {
	return &EntryReader{a: a, e: e}, nil
}

// Read implements io.Reader.
func (er *EntryReader) Read(p []byte) (int, error) {
	if er.pos >= er.e.Size {
		return 0, io.EOF
	}
	remain := er.e.Size - er.pos
	n := int64(len(p))
	if n > remain {
		n = remain
	}
	if n == 0 {
		return 0, nil
	}

	data, err := er.readRange(er.pos, n)
	if err != nil {
		return 0, err
	}
	copy(p, data)
	er.pos += n
	return int(n), nil
}

// Seek implements io.Seeker.
func (er *EntryReader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = er.pos + offset
	case io.SeekEnd:
		target = er.e.Size + offset
	default:
		return 0, newErr("EntryReader.Seek", Malformed, "invalid whence")
	}
	if target < 0 {
		return 0, newErr("EntryReader.Seek", Malformed, "negative position")
	}
	er.pos = target
	return target, nil
}

// Size returns the entry's plaintext size.
func (er *EntryReader) Size() int64 { return er.e.Size }

// readRange decrypts and returns the [relStart, relStart+length) byte
// range of the entry's plaintext, rounding out to the enclosing
// 16-byte counter blocks so the keystream can be seeded at a block
// boundary (spec §4.3).
func (er *EntryReader) readRange(relStart, length int64) ([]byte, error) {
	alignedStart := relStart - relStart%16
	end := relStart + length
	alignedEnd := end
	if rem := alignedEnd % 16; rem != 0 {
		alignedEnd += 16 - rem
	}

	bufLen := alignedEnd - alignedStart
	absOffset := er.e.Offset + alignedStart

	buf := make([]byte, bufLen)
	if err := readAt(er.a.r, absOffset, buf); err != nil {
		return nil, err
	}

	relInDataRegion := (er.e.Offset - int64(er.a.Header.DataOffset)) + alignedStart
	dec, err := er.a.decrypterAt(relInDataRegion)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		dec.XORBlocks(buf, buf)
	}

	start := relStart - alignedStart
	return buf[start : start+length], nil
}
