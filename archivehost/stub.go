package archivehost

import "io"

// ExFATHandler recognises an ExFAT filesystem image's boot sector but
// does not parse the FAT chain or directory entries; no ExFAT parser
// is grounded in this repository's reference corpus.
type ExFATHandler struct {
	size int64
}

func (h *ExFATHandler) Open(r io.ReaderAt, size int64) error {
	h.size = size
	return nil
}

func (h *ExFATHandler) NumItems() int { return 0 }

func (h *ExFATHandler) Item(i int) (ItemInfo, error) {
	return ItemInfo{}, ErrNotImplemented
}

func (h *ExFATHandler) Extract(i int) ([]byte, error) {
	return nil, ErrNotImplemented
}

// InstallShieldHandler recognises an InstallShield/ISSetupStream
// signature but does not parse its cabinet layout.
type InstallShieldHandler struct {
	size int64
}

func (h *InstallShieldHandler) Open(r io.ReaderAt, size int64) error {
	h.size = size
	return nil
}

func (h *InstallShieldHandler) NumItems() int { return 0 }

func (h *InstallShieldHandler) Item(i int) (ItemInfo, error) {
	return ItemInfo{}, ErrNotImplemented
}

func (h *InstallShieldHandler) Extract(i int) ([]byte, error) {
	return nil, ErrNotImplemented
}
