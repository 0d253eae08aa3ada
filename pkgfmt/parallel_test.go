package pkgfmt

import (
	"bytes"
	"strings"
	"testing"
)

// poisonReaderAt wraps a backing reader and panics on any ReadAt whose
// range overlaps poisonOffset, simulating a worker hitting a corrupt
// or hostile backing store mid-extraction.
type poisonReaderAt struct {
	backing      *bytes.Reader
	poisonOffset int64
}

func (p *poisonReaderAt) ReadAt(buf []byte, off int64) (int, error) {
	if off <= p.poisonOffset && p.poisonOffset < off+int64(len(buf)) {
		panic("simulated panic reading archive payload")
	}
	return p.backing.ReadAt(buf, off)
}

// TestArchiveExtractAll_RecoversWorkerPanic mirrors the teacher's
// panic-recovery coverage for its own worker pool: a panic in one
// extraction job must surface as an error from ExtractAll, not crash
// the process or silently drop results.
func TestArchiveExtractAll_RecoversWorkerPanic(t *testing.T) {
	digest := [16]byte{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	payload := []byte("this entry's bytes will never be reached because the reader panics")

	img := buildArchiveBytes(t, digest, "POISON.BIN", payload)
	e := func() Entry {
		a, err := Open(bytes.NewReader(img), int64(len(img)))
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		return realEntry(t, a)
	}()

	poisoned := &poisonReaderAt{backing: bytes.NewReader(img), poisonOffset: e.Offset}
	a, err := Open(poisoned, int64(len(img)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err = a.ExtractAll([]Entry{e, e}, ExtractConfig{MaxWorkers: 2, MinEntriesForParallel: 1})
	if err == nil {
		t.Fatal("ExtractAll() error = nil, want panic recovered as an error")
	}
	if !strings.Contains(err.Error(), "panic") {
		t.Errorf("ExtractAll() error = %q, want it to mention the recovered panic", err)
	}
}
