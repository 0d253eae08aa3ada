// Package aes128 implements the FIPS-197 AES-128 block cipher from
// scratch. Only single-block encryption is provided: the PKG keystream
// (see pkgfmt) uses AES-128 as a block-counter keystream generator, not
// as a general-purpose cipher, so there is no decryption path, no mode
// of operation, and no streaming API here.
//
// This is a bespoke implementation by design (see the package-level
// note in pkgfmt/doc.go): the host format keys off the literal
// FIPS-197 round structure rather than crypto/aes, mirroring the
// on-disk keystream generator it was distilled from.
package aes128

// Cipher holds an expanded AES-128 key schedule. Expansion happens
// once in New; EncryptBlock reuses it, which is the only "caching"
// this primitive needs (the PKG keystream calls EncryptBlock once per
// 16-byte counter block under a fixed key).
type Cipher struct {
	roundKeys [11][4]uint32
}

// New expands a 16-byte AES-128 key into 11 round keys.
func New(key [16]byte) *Cipher {
	c := &Cipher{}
	c.expandKey(key)
	return c
}

// EncryptBlock encrypts the 16 bytes in src into dst using FIPS-197
// AES-128: AddRoundKey, 9 rounds of SubBytes/ShiftRows/MixColumns/
// AddRoundKey, then a final SubBytes/ShiftRows/AddRoundKey. dst and
// src may be the same slice.
func (c *Cipher) EncryptBlock(dst, src *[16]byte) {
	var s [4]uint32
	s[0] = wordFromBytes(src[0], src[1], src[2], src[3])
	s[1] = wordFromBytes(src[4], src[5], src[6], src[7])
	s[2] = wordFromBytes(src[8], src[9], src[10], src[11])
	s[3] = wordFromBytes(src[12], src[13], src[14], src[15])

	addRoundKey(&s, &c.roundKeys[0])

	for round := 1; round <= 9; round++ {
		subBytesWords(&s)
		shiftRows(&s)
		mixColumns(&s)
		addRoundKey(&s, &c.roundKeys[round])
	}

	subBytesWords(&s)
	shiftRows(&s)
	addRoundKey(&s, &c.roundKeys[10])

	putWord(dst[0:4], s[0])
	putWord(dst[4:8], s[1])
	putWord(dst[8:12], s[2])
	putWord(dst[12:16], s[3])
}

func wordFromBytes(b0, b1, b2, b3 byte) uint32 {
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

func putWord(dst []byte, w uint32) {
	dst[0] = byte(w >> 24)
	dst[1] = byte(w >> 16)
	dst[2] = byte(w >> 8)
	dst[3] = byte(w)
}

// state is stored as 4 column words, each byte b0..b3 being one row
// (b0 = row 0, ... b3 = row 3) of that column, matching the FIPS-197
// column-major state layout.

func addRoundKey(s *[4]uint32, rk *[4]uint32) {
	s[0] ^= rk[0]
	s[1] ^= rk[1]
	s[2] ^= rk[2]
	s[3] ^= rk[3]
}

func subBytesWords(s *[4]uint32) {
	for i := range s {
		w := s[i]
		s[i] = uint32(sbox[byte(w>>24)])<<24 |
			uint32(sbox[byte(w>>16)])<<16 |
			uint32(sbox[byte(w>>8)])<<8 |
			uint32(sbox[byte(w)])
	}
}

// shiftRows operates on the column-major state: row r of column c
// moves to column (c - r) mod 4 (a left-rotation of each row by its
// index). Expressed here directly in terms of the 4 column words.
func shiftRows(s *[4]uint32) {
	b := [4][4]byte{}
	for c := 0; c < 4; c++ {
		b[c][0] = byte(s[c] >> 24)
		b[c][1] = byte(s[c] >> 16)
		b[c][2] = byte(s[c] >> 8)
		b[c][3] = byte(s[c])
	}
	var out [4][4]byte
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = b[(c+r)%4][r]
		}
	}
	for c := 0; c < 4; c++ {
		s[c] = wordFromBytes(out[c][0], out[c][1], out[c][2], out[c][3])
	}
}

func mixColumns(s *[4]uint32) {
	for c := 0; c < 4; c++ {
		a0 := byte(s[c] >> 24)
		a1 := byte(s[c] >> 16)
		a2 := byte(s[c] >> 8)
		a3 := byte(s[c])

		b0 := gmul2(a0) ^ gmul3(a1) ^ a2 ^ a3
		b1 := a0 ^ gmul2(a1) ^ gmul3(a2) ^ a3
		b2 := a0 ^ a1 ^ gmul2(a2) ^ gmul3(a3)
		b3 := gmul3(a0) ^ a1 ^ a2 ^ gmul2(a3)

		s[c] = wordFromBytes(b0, b1, b2, b3)
	}
}

// gmul2 multiplies by x in GF(2^8) under the AES reduction polynomial
// 0x1B (x^8 + x^4 + x^3 + x + 1).
func gmul2(a byte) byte {
	hi := a & 0x80
	a <<= 1
	if hi != 0 {
		a ^= 0x1B
	}
	return a
}

func gmul3(a byte) byte {
	return gmul2(a) ^ a
}

// expandKey runs the standard AES-128 key schedule: the first 4 words
// are the raw key, each subsequent word is the previous word XORed
// with the word 4 positions back, with a RotWord/SubWord/Rcon
// transform applied every 4th word.
func (c *Cipher) expandKey(key [16]byte) {
	var w [44]uint32
	w[0] = wordFromBytes(key[0], key[1], key[2], key[3])
	w[1] = wordFromBytes(key[4], key[5], key[6], key[7])
	w[2] = wordFromBytes(key[8], key[9], key[10], key[11])
	w[3] = wordFromBytes(key[12], key[13], key[14], key[15])

	for i := 4; i < 44; i++ {
		temp := w[i-1]
		if i%4 == 0 {
			temp = subWord(rotWord(temp)) ^ (uint32(rcon[i/4]) << 24)
		}
		w[i] = w[i-4] ^ temp
	}

	for round := 0; round < 11; round++ {
		c.roundKeys[round][0] = w[round*4]
		c.roundKeys[round][1] = w[round*4+1]
		c.roundKeys[round][2] = w[round*4+2]
		c.roundKeys[round][3] = w[round*4+3]
	}
}

func rotWord(w uint32) uint32 {
	return w<<8 | w>>24
}

func subWord(w uint32) uint32 {
	return uint32(sbox[byte(w>>24)])<<24 |
		uint32(sbox[byte(w>>16)])<<16 |
		uint32(sbox[byte(w>>8)])<<8 |
		uint32(sbox[byte(w)])
}

// rcon holds the round constants used by the key schedule, indexed
// from 1 (rcon[0] is unused).
var rcon = [11]byte{
	0x00, 0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1B, 0x36,
}

// sbox is the fixed FIPS-197 substitution box.
var sbox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}
