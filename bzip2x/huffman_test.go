package bzip2x

import (
	"bytes"
	"testing"
)

// A tiny 4-symbol canonical code: lengths [1, 2, 3, 3] gives codes
// 0, 10, 110, 111.
func tinyLengths() []uint8 { return []uint8{1, 2, 3, 3} }

func TestBuildHuffmanTable_RoundTrips(t *testing.T) {
	table, err := buildHuffmanTable(tinyLengths())
	if err != nil {
		t.Fatalf("buildHuffmanTable() error = %v", err)
	}

	// Encode symbols [0, 1, 2, 3, 0] as codes [0, 10, 110, 111, 0],
	// packed MSB-first: 0 10 110 111 0 = 0101101110 -> pad to bytes.
	bits := "0101101110"
	for len(bits)%8 != 0 {
		bits += "0"
	}
	var buf []byte
	for i := 0; i < len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits[i+j] == '1' {
				b |= 1
			}
		}
		buf = append(buf, b)
	}

	br := newBitReader(bytes.NewReader(buf))
	want := []int32{0, 1, 2, 3, 0}
	for i, w := range want {
		got, err := decodeSymbol(br, table)
		if err != nil {
			t.Fatalf("decodeSymbol(%d) error = %v", i, err)
		}
		if got != w {
			t.Errorf("decodeSymbol(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestBuildHuffmanTable_RejectsOverlongCode(t *testing.T) {
	lengths := make([]uint8, 3)
	lengths[0] = 21
	lengths[1] = 1
	lengths[2] = 1
	if _, err := buildHuffmanTable(lengths); !IsKind(err, Malformed) {
		t.Fatalf("buildHuffmanTable() error = %v, want Malformed", err)
	}
}
