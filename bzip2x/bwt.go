package bzip2x

// inverseBWT reconstructs the pre-BWT byte stream from data (the
// post-MTF/RLE block bytes) and origPtr, using a stable counting-sort
// transformation vector (spec §4.5 step 14).
func inverseBWT(data []byte, origPtr int, tt []uint32) ([]byte, error) {
	n := len(data)
	if origPtr < 0 || origPtr >= n {
		return nil, newErr("inverseBWT", Malformed, "origPtr out of range")
	}

	var cumul [256]uint32
	for _, b := range data {
		cumul[b]++
	}
	var sum uint32
	for i := 0; i < 256; i++ {
		c := cumul[i]
		cumul[i] = sum
		sum += c
	}

	for i := 0; i < n; i++ {
		b := data[i]
		tt[cumul[b]] = uint32(i)
		cumul[b]++
	}

	out := make([]byte, n)
	idx := tt[origPtr]
	for i := 0; i < n; i++ {
		out[i] = data[idx]
		idx = tt[idx]
	}
	return out, nil
}
