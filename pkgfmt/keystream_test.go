package pkgfmt

import "testing"

func TestKeystream_IncrementCarries(t *testing.T) {
	ks := &keystream{buf: []byte{0x00, 0x00, 0xFF}}
	ks.increment()
	want := []byte{0x00, 0x01, 0x00}
	for i := range want {
		if ks.buf[i] != want[i] {
			t.Fatalf("buf = %x, want %x", ks.buf, want)
		}
	}
}

func TestKeystream_IncrementWrapsOnOverflow(t *testing.T) {
	ks := &keystream{buf: []byte{0xFF, 0xFF}}
	ks.increment()
	if ks.buf[0] != 0x00 || ks.buf[1] != 0x00 {
		t.Fatalf("buf = %x, want 0000 (silent wrap)", ks.buf)
	}
}

func TestKeystream_SeekAdvancesByBlockCount(t *testing.T) {
	a := &keystream{buf: make([]byte, 4)}
	b := &keystream{buf: make([]byte, 4)}

	a.seek(3)
	for i := 0; i < 3; i++ {
		b.increment()
	}

	for i := range a.buf {
		if a.buf[i] != b.buf[i] {
			t.Fatalf("seek(3) buf = %x, want %x", a.buf, b.buf)
		}
	}
}

func TestNewDecrypter_RejectsUnalignedOffset(t *testing.T) {
	var digest [16]byte
	_, err := NewDecrypter(digest, TypePS3, 17)
	if !IsKind(err, Malformed) {
		t.Fatalf("NewDecrypter() error = %v, want Malformed", err)
	}
}

func TestNewDecrypter_RejectsUnknownType(t *testing.T) {
	var digest [16]byte
	_, err := NewDecrypter(digest, Type(0xBEEF), 0)
	if !IsKind(err, Unsupported) {
		t.Fatalf("NewDecrypter() error = %v, want Unsupported", err)
	}
}

func TestDecrypter_XORBlocks_IsAnInvolution(t *testing.T) {
	for _, pkgType := range []Type{TypePS3, TypeDebugPS3, TypeDebugPSP} {
		digest := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
		plaintext := []byte("this message spans more than one sixteen byte block of data")

		enc, err := NewDecrypter(digest, pkgType, 0)
		if err != nil {
			t.Fatalf("NewDecrypter() error = %v", err)
		}
		ciphertext := make([]byte, len(plaintext))
		enc.XORBlocks(ciphertext, plaintext)

		dec, err := NewDecrypter(digest, pkgType, 0)
		if err != nil {
			t.Fatalf("NewDecrypter() error = %v", err)
		}
		roundtrip := make([]byte, len(ciphertext))
		dec.XORBlocks(roundtrip, ciphertext)

		if string(roundtrip) != string(plaintext) {
			t.Errorf("type %v: roundtrip = %q, want %q", pkgType, roundtrip, plaintext)
		}
	}
}

func TestDecrypter_XORBlocks_SeekMatchesSequentialRead(t *testing.T) {
	digest := [16]byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	plaintext := make([]byte, 64)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}

	full, err := NewDecrypter(digest, TypePS3, 0)
	if err != nil {
		t.Fatalf("NewDecrypter() error = %v", err)
	}
	ciphertext := make([]byte, len(plaintext))
	full.XORBlocks(ciphertext, plaintext)

	seeked, err := NewDecrypter(digest, TypePS3, 32)
	if err != nil {
		t.Fatalf("NewDecrypter() error = %v", err)
	}
	tail := make([]byte, 32)
	seeked.XORBlocks(tail, ciphertext[32:])

	if string(tail) != string(plaintext[32:]) {
		t.Errorf("seeked decrypt = %x, want %x", tail, plaintext[32:])
	}
}
