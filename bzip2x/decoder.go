package bzip2x

import "io"

const (
	streamMagic1 = 0x425A68 // "BZh"
	blockMagic1  = 0x314159
	blockMagic2  = 0x265359
	eosMagic1    = 0x177245
	eosMagic2    = 0x385090

	maxBlockSize = 900000
)

// Decoder reads a complete bzip2 stream and produces its concatenated
// decompressed bytes. It owns a reusable 900 000-byte scratch buffer
// and transformation vector so the blocks of one stream don't each
// reallocate them (spec §1's "per-block
// scratch buffer, lifetime bounded by the call").
type Decoder struct {
	r  *bitReader
	tt []uint32

	// StrictRLE selects which byte fills a RUNA/RUNB run: the live
	// MTF-top symbol (true, the corrected behavior) or the lowest
	// in-use byte value, mirroring a reference decoder that conflates
	// the run symbol with seqToUnseq[0] (false). Default true.
	StrictRLE bool

	// VerifyCRC checks each block's and the stream's CRC-32 against
	// the decoded bytes, returning DataError on mismatch. Default true.
	VerifyCRC bool
}

// NewDecoder wraps r for decoding, with StrictRLE and VerifyCRC at
// their defaults (both true).
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:         newBitReader(r),
		tt:        make([]uint32, maxBlockSize),
		StrictRLE: true,
		VerifyCRC: true,
	}
}

// Decode reads and decompresses the entire stream.
func Decode(r io.Reader) ([]byte, error) {
	return NewDecoder(r).Decode()
}

func (d *Decoder) Decode() ([]byte, error) {
	hdr, err := d.r.readBits(24)
	if err != nil {
		return nil, wrapErr("Decode", ShortRead, err)
	}
	if hdr != streamMagic1 {
		return nil, newErr("Decode", BadMagic, "stream magic mismatch")
	}
	level, err := d.r.readBits(8)
	if err != nil {
		return nil, wrapErr("Decode", ShortRead, err)
	}
	if level < '1' || level > '9' {
		return nil, newErr("Decode", Malformed, "block-size digit out of range")
	}

	var out []byte
	var streamCRC uint32

	for {
		m1, err := d.r.readBits(24)
		if err != nil {
			return nil, wrapErr("Decode", ShortRead, err)
		}
		m2, err := d.r.readBits(24)
		if err != nil {
			return nil, wrapErr("Decode", ShortRead, err)
		}

		if m1 == eosMagic1 && m2 == eosMagic2 {
			combined, err := d.r.readBits(32)
			if err != nil {
				return nil, wrapErr("Decode", ShortRead, err)
			}
			if d.VerifyCRC && combined != streamCRC {
				return nil, newErr("Decode", DataError, "stream CRC mismatch")
			}
			return out, nil
		}
		if m1 != blockMagic1 || m2 != blockMagic2 {
			return nil, newErr("Decode", BadMagic, "block magic mismatch")
		}

		blockBytes, blockSum, err := d.decodeBlock()
		if err != nil {
			return nil, err
		}
		out = append(out, blockBytes...)
		streamCRC = combineStreamCRC(streamCRC, blockSum)
	}
}

// decodeBlock decodes one bzip2 block per spec §4.5 steps 1-15,
// returning its output bytes and its CRC-32.
func (d *Decoder) decodeBlock() ([]byte, uint32, error) {
	wantCRC, err := d.r.readBits(32)
	if err != nil {
		return nil, 0, wrapErr("decodeBlock", ShortRead, err)
	}

	randomized, err := d.r.readBool()
	if err != nil {
		return nil, 0, wrapErr("decodeBlock", ShortRead, err)
	}
	if randomized {
		return nil, 0, newErr("decodeBlock", Unsupported, "randomized bzip2 blocks are not supported")
	}

	origPtrBits, err := d.r.readBits(24)
	if err != nil {
		return nil, 0, wrapErr("decodeBlock", ShortRead, err)
	}
	origPtr := int(origPtrBits)

	inUse, err := d.readSymbolMap()
	if err != nil {
		return nil, 0, err
	}
	symTotal := len(inUse)
	alphaSize := symTotal + 2

	nGroups, err := d.r.readBits(3)
	if err != nil {
		return nil, 0, wrapErr("decodeBlock", ShortRead, err)
	}
	if nGroups < 2 || nGroups > 6 {
		return nil, 0, newErr("decodeBlock", Malformed, "nGroups out of range")
	}

	nSelectors, err := d.r.readBits(15)
	if err != nil {
		return nil, 0, wrapErr("decodeBlock", ShortRead, err)
	}
	if nSelectors < 1 {
		return nil, 0, newErr("decodeBlock", Malformed, "nSelectors must be at least 1")
	}

	selectors, err := d.readSelectors(int(nSelectors), int(nGroups))
	if err != nil {
		return nil, 0, err
	}

	tables := make([]*huffmanTable, nGroups)
	for g := 0; g < int(nGroups); g++ {
		lengths, err := d.readCodeLengths(alphaSize)
		if err != nil {
			return nil, 0, err
		}
		t, err := buildHuffmanTable(lengths)
		if err != nil {
			return nil, 0, err
		}
		tables[g] = t
	}

	decoded, err := d.decodeSymbols(inUse, alphaSize, selectors, tables)
	if err != nil {
		return nil, 0, err
	}
	if len(decoded) > maxBlockSize {
		return nil, 0, newErr("decodeBlock", Truncated, "block output exceeds 900000 bytes")
	}

	out, err := inverseBWT(decoded, origPtr, d.tt[:len(decoded)])
	if err != nil {
		return nil, 0, err
	}

	c := newBlockCRC()
	c.update(out)
	gotCRC := c.sum()
	if d.VerifyCRC && gotCRC != wantCRC {
		return nil, 0, newErr("decodeBlock", DataError, "block CRC mismatch")
	}

	return out, gotCRC, nil
}

// readSymbolMap decodes the 16-bit coarse map plus the fine maps for
// set coarse bits, returning the sorted list of in-use byte values
// (spec §4.5 step 4).
func (d *Decoder) readSymbolMap() ([]byte, error) {
	coarse, err := d.r.readBits(16)
	if err != nil {
		return nil, wrapErr("readSymbolMap", ShortRead, err)
	}

	var inUse []byte
	for i := 0; i < 16; i++ {
		if coarse&(1<<(15-i)) == 0 {
			continue
		}
		fine, err := d.r.readBits(16)
		if err != nil {
			return nil, wrapErr("readSymbolMap", ShortRead, err)
		}
		for j := 0; j < 16; j++ {
			if fine&(1<<(15-j)) != 0 {
				inUse = append(inUse, byte(i*16+j))
			}
		}
	}
	if len(inUse) == 0 {
		return nil, newErr("readSymbolMap", Malformed, "empty symbol map")
	}
	return inUse, nil
}

// readSelectors reads nSelectors unary-coded group indices, then
// inverse-MTFs them against an identity permutation on [0, nGroups)
// (spec §4.5 step 8).
func (d *Decoder) readSelectors(nSelectors, nGroups int) ([]byte, error) {
	mtf := make([]byte, nGroups)
	for i := range mtf {
		mtf[i] = byte(i)
	}

	selectors := make([]byte, nSelectors)
	for i := 0; i < nSelectors; i++ {
		j, err := d.r.readUnary()
		if err != nil {
			return nil, wrapErr("readSelectors", ShortRead, err)
		}
		if int(j) >= nGroups {
			return nil, newErr("readSelectors", Malformed, "selector index exceeds nGroups")
		}
		v := mtf[j]
		copy(mtf[1:j+1], mtf[0:j])
		mtf[0] = v
		selectors[i] = v
	}
	return selectors, nil
}

// readCodeLengths decodes one group's delta-coded length array (spec
// §4.5 step 9).
func (d *Decoder) readCodeLengths(alphaSize int) ([]uint8, error) {
	curr, err := d.r.readBits(5)
	if err != nil {
		return nil, wrapErr("readCodeLengths", ShortRead, err)
	}

	lengths := make([]uint8, alphaSize)
	for s := 0; s < alphaSize; s++ {
		for {
			bit, err := d.r.readBit()
			if err != nil {
				return nil, wrapErr("readCodeLengths", ShortRead, err)
			}
			if bit == 0 {
				break
			}
			sign, err := d.r.readBit()
			if err != nil {
				return nil, wrapErr("readCodeLengths", ShortRead, err)
			}
			if sign == 1 {
				curr--
			} else {
				curr++
			}
		}
		if curr < 1 || curr > 20 {
			return nil, newErr("readCodeLengths", Malformed, "code length outside [1, 20]")
		}
		lengths[s] = uint8(curr)
	}
	return lengths, nil
}

// decodeSymbols drives the per-50-symbol group selector, Huffman
// decoding, RUNA/RUNB expansion, and inverse MTF (spec §4.5 steps
// 11-13) to produce the post-BWT byte stream for one block.
func (d *Decoder) decodeSymbols(inUse []byte, alphaSize int, selectors []byte, tables []*huffmanTable) ([]byte, error) {
	eob := int32(alphaSize - 1)
	mtf := newMTFState(inUse)
	fillByte := inUse[0]

	var out []byte
	var run, runBit uint
	selIdx, groupPos := -1, 50
	var table *huffmanTable

	flushRun := func() {
		if run == 0 {
			return
		}
		b := fillByte
		if d.StrictRLE {
			b = mtf.top()
		}
		for i := uint(0); i < run; i++ {
			out = append(out, b)
		}
		run, runBit = 0, 0
	}

	for {
		if groupPos == 50 {
			selIdx++
			if selIdx >= len(selectors) {
				return nil, newErr("decodeSymbols", Malformed, "ran out of selectors before EOB")
			}
			table = tables[selectors[selIdx]]
			groupPos = 0
		}

		sym, err := decodeSymbol(d.r, table)
		if err != nil {
			return nil, err
		}
		groupPos++

		switch {
		case sym == eob:
			flushRun()
			return out, nil
		case sym == 0 || sym == 1: // RUNA, RUNB
			run += uint(sym+1) << runBit
			runBit++
			if len(out)+int(run) > maxBlockSize {
				return nil, newErr("decodeSymbols", Truncated, "block output exceeds 900000 bytes")
			}
		default:
			flushRun()
			out = append(out, mtf.decode(int(sym-1)))
			if len(out) > maxBlockSize {
				return nil, newErr("decodeSymbols", Truncated, "block output exceeds 900000 bytes")
			}
		}
	}
}
