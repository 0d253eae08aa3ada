package pkgfmt

import (
	"github.com/keystone-archive/pkgcore/pkgfmt/aes128"
	"github.com/keystone-archive/pkgcore/pkgfmt/sha1sum"
)

// Fixed AES-128 keys for the debug/PSP keystream variants (spec §6,
// bit-exact).
var (
	PS3PKGAESKey = [16]byte{0x2E, 0x7B, 0x71, 0xD7, 0xC9, 0xC9, 0xA1, 0x4E, 0xA3, 0x22, 0x1F, 0x18, 0x88, 0x28, 0xB8, 0xF8}
	PSPPKGAESKey = [16]byte{0x07, 0xF2, 0xC6, 0x82, 0x90, 0xB5, 0x0D, 0x2C, 0x33, 0x81, 0x8D, 0x70, 0x9B, 0x60, 0xE6, 0x2B}
)

// CipherKeySource selects which 16-byte PKG header field seeds the
// keystream. The reference parser keys off Digest; known-good retail
// PS3 archives are believed to use PKGDataRIV instead (spec §9, open
// question 1). Both are exposed rather than guessed at.
type CipherKeySource func(h *Header) [16]byte

// DigestKeySource uses Header.Digest, matching the reference parser.
func DigestKeySource(h *Header) [16]byte { return h.Digest }

// RIVKeySource uses Header.PKGDataRIV.
func RIVKeySource(h *Header) [16]byte { return h.PKGDataRIV }

// keystream is the per-call cipher state: a big-endian multi-precision
// counter, advanced once per 16-byte block. It is created fresh for
// each decryption request and never shared across goroutines (spec
// §5); pkgfmt.ExtractAll gives each worker its own instance.
type keystream struct {
	pkgType Type
	buf     []byte // 64 bytes (retail) or 16 bytes (debug/PSP)
	cipher  *aes128.Cipher
}

// newKeystream builds the key buffer for pkgType from a 16-byte
// digest, per spec §4.3's key-buffer-construction rule.
func newKeystream(digest [16]byte, pkgType Type) (*keystream, error) {
	ks := &keystream{pkgType: pkgType}

	switch pkgType {
	case TypePS3:
		buf := make([]byte, 64)
		copy(buf[0:8], digest[0:8])
		copy(buf[8:16], digest[0:8])
		copy(buf[16:24], digest[8:16])
		copy(buf[24:32], digest[8:16])
		ks.buf = buf
	case TypeDebugPS3:
		buf := make([]byte, 16)
		copy(buf, digest[:])
		ks.buf = buf
		ks.cipher = aes128.New(PS3PKGAESKey)
	case TypeDebugPSP:
		buf := make([]byte, 16)
		copy(buf, digest[:])
		ks.buf = buf
		ks.cipher = aes128.New(PSPPKGAESKey)
	default:
		return nil, newErr("NewDecrypter", Unsupported, "unknown PKG cipher type")
	}

	return ks, nil
}

// increment adds 1 to the key buffer, treated as a big-endian unsigned
// integer, with carry propagation from the least significant byte.
// Overflow out of the most significant byte silently wraps (spec §4.3).
func (ks *keystream) increment() {
	for i := len(ks.buf) - 1; i >= 0; i-- {
		ks.buf[i]++
		if ks.buf[i] != 0 {
			return
		}
	}
}

// block produces the next 16-byte keystream block without advancing
// the counter; callers must call increment() after consuming it.
func (ks *keystream) block() [16]byte {
	switch ks.pkgType {
	case TypePS3:
		digest := sha1sum.Sum(ks.buf)
		var out [16]byte
		copy(out[:], digest[:16])
		return out
	default: // TypeDebugPS3, TypeDebugPSP
		var src, out [16]byte
		copy(src[:], ks.buf)
		ks.cipher.EncryptBlock(&out, &src)
		return out
	}
}

// seek advances the counter by n blocks without producing output,
// implementing spec §4.3's seeking contract (startBlock = O / 16).
func (ks *keystream) seek(blocks uint64) {
	for i := uint64(0); i < blocks; i++ {
		ks.increment()
	}
}

// Decrypter decrypts an arbitrary-length, block-aligned-start byte
// range of a PKG encrypted region, supporting the random-access
// requirement in spec §1: reconstructing the counter state at an
// arbitrary offset just means seeking forward the right number of
// blocks before producing any keystream.
type Decrypter struct {
	ks *keystream
}

// NewDecrypter creates a Decrypter seeded from digest for pkgType,
// with its counter advanced so the first XORBlocks call begins
// decrypting ciphertext starting at relative byte offset startOffset.
// startOffset must be a multiple of 16 (spec §4.3: "The decryption API
// as specified is block-aligned at the start").
func NewDecrypter(digest [16]byte, pkgType Type, startOffset int64) (*Decrypter, error) {
	if startOffset < 0 {
		return nil, newErr("NewDecrypter", Malformed, "negative start offset")
	}
	if startOffset%16 != 0 {
		return nil, newErr("NewDecrypter", Malformed, "start offset not 16-byte aligned")
	}

	ks, err := newKeystream(digest, pkgType)
	if err != nil {
		return nil, err
	}
	ks.seek(uint64(startOffset) / 16)

	return &Decrypter{ks: ks}, nil
}

// XORBlocks decrypts (or, identically, encrypts — XOR is an
// involution, spec §8 property 5) src into dst, advancing the
// counter by one block per 16 bytes consumed; the final block may be
// short. len(dst) must equal len(src).
func (d *Decrypter) XORBlocks(dst, src []byte) {
	for off := 0; off < len(src); off += 16 {
		end := off + 16
		if end > len(src) {
			end = len(src)
		}
		blk := d.ks.block()
		for i := off; i < end; i++ {
			dst[i] = src[i] ^ blk[i-off]
		}
		d.ks.increment()
	}
}
