// Package pkgfmt reads PlayStation 3 PKG containers: a 128-byte
// header, a best-effort metadata region, and an encrypted file table
// describing the byte ranges of the packaged files.
//
// # Overview
//
// pkgfmt parses the container structure and undoes the PKG stream
// cipher; it does not understand any individual packaged file's own
// format. Callers that need the decompressed contents of a bzip2'd
// entry pipe the extracted bytes through bzip2x themselves.
//
// # Cipher Variants
//
//   - Retail PS3 (pkg_type 1): keystream blocks are SHA-1(counter),
//     counter a 64-byte big-endian buffer built from the header digest.
//   - Debug PS3 / PSP: keystream blocks are AES-128(counter) under a
//     fixed key, counter a 16-byte big-endian buffer seeded from the
//     header digest.
//
// Both variants advance their counter by one per 16-byte block and
// support seeking to an arbitrary block before producing output,
// which is what makes EntryReader's random access possible.
//
// # Basic Usage
//
//	f, _ := os.Open("game.pkg")
//	defer f.Close()
//	fi, _ := f.Stat()
//
//	a, err := pkgfmt.Open(f, fi.Size())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, e := range a.Items {
//	    data, err := a.ExtractFileData(e)
//	    ...
//	}
//
// # Not Handled Here
//
//   - Writing or repacking PKG archives.
//   - ExFAT and InstallShield containers: see archivehost for the
//     format-dispatch layer and its stub handlers.
//   - Decompression of packaged file contents: see bzip2x.
package pkgfmt
