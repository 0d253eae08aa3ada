package bzip2x

// huffmanTable holds the canonical decode tables for one of the up to
// six groups active in a block: limit/base arrays indexed by code
// length, and perm mapping a (length, zvec-base) pair back to a
// symbol (spec §4.5 step 10).
type huffmanTable struct {
	minLen int
	maxLen int
	limit  [maxCodeLen + 2]int32
	base   [maxCodeLen + 2]int32
	perm   []int32
}

const maxCodeLen = 23 // one past the 20-bit fatal threshold in spec §8

// buildHuffmanTable constructs a canonical decode table from the
// per-symbol code lengths, following the standard canonical-Huffman
// assignment: symbols are conceptually sorted by (length, symbol
// value), codes grow left-shifted between lengths, and limit[len] /
// base[len] bound each length's code range.
func buildHuffmanTable(lengths []uint8) (*huffmanTable, error) {
	minLen, maxLen := 32, 0
	for _, l := range lengths {
		if int(l) < minLen {
			minLen = int(l)
		}
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	if maxLen > 20 {
		return nil, newErr("buildHuffmanTable", Malformed, "code length exceeds 20 bits")
	}
	if minLen == 0 {
		return nil, newErr("buildHuffmanTable", Malformed, "zero code length")
	}

	t := &huffmanTable{minLen: minLen, maxLen: maxLen, perm: make([]int32, len(lengths))}

	// perm: symbols ordered by (length, symbol value).
	pp := 0
	for l := minLen; l <= maxLen; l++ {
		for sym, sl := range lengths {
			if int(sl) == l {
				t.perm[pp] = int32(sym)
				pp++
			}
		}
	}

	// base[i] starts as a histogram of lengths, offset by one, then is
	// turned into a running total: base[i] = count of symbols with
	// length < i.
	for _, l := range lengths {
		t.base[l+1]++
	}
	for i := 1; i < len(t.base); i++ {
		t.base[i] += t.base[i-1]
	}

	vec := int32(0)
	for l := minLen; l <= maxLen; l++ {
		vec += t.base[l+1] - t.base[l]
		t.limit[l] = vec - 1
		vec <<= 1
	}
	for l := minLen + 1; l <= maxLen; l++ {
		t.base[l] = ((t.limit[l-1] + 1) << 1) - t.base[l]
	}

	return t, nil
}

// decodeSymbol reads one Huffman-coded symbol using t, starting with
// minLen bits and extending one bit at a time while the accumulated
// value exceeds limit[len] (spec §4.5 step 11).
func decodeSymbol(br *bitReader, t *huffmanTable) (int32, error) {
	l := t.minLen
	v, err := br.readBits(uint(l))
	if err != nil {
		return 0, err
	}
	zvec := int32(v)

	for l <= t.maxLen && zvec > t.limit[l] {
		bit, err := br.readBits(1)
		if err != nil {
			return 0, err
		}
		zvec = zvec<<1 | int32(bit)
		l++
	}
	if l > t.maxLen {
		return 0, newErr("decodeSymbol", Malformed, "code length exceeds table maximum")
	}

	idx := zvec - t.base[l]
	if idx < 0 || int(idx) >= len(t.perm) {
		return 0, newErr("decodeSymbol", Malformed, "decoded symbol index out of range")
	}
	return t.perm[idx], nil
}
