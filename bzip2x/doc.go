// Package bzip2x is a standalone bzip2 block decompressor: bit-stream
// framing, multi-group canonical Huffman decoding, RUNA/RUNB
// run-length expansion, inverse move-to-front, and inverse
// Burrows-Wheeler transform.
//
// It has no dependency on pkgfmt; callers that need to decompress a
// packaged file's bytes (for example, after pkgfmt.Archive.ExtractFileData)
// pipe them through Decode themselves.
//
//	data, err := pkgArchive.ExtractFileData(entry)
//	if err == nil && looksBzip2(data) {
//	    data, err = bzip2x.Decode(bytes.NewReader(data))
//	}
//
// Decoder.StrictRLE and Decoder.VerifyCRC are exposed for callers that
// need to match a particular reference decoder's known quirks rather
// than the corrected behavior both default to.
package bzip2x
