package main

import (
	"fmt"
	"os"

	"github.com/keystone-archive/pkgcore/archivehost"
)

// openHandler sniffs path's container format and returns a ready
// archivehost.Handler. The file is left open for the handler's
// lifetime; callers are responsible for closing it.
func openHandler(path string) (archivehost.Handler, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	sniff := make([]byte, 32)
	n, err := f.ReadAt(sniff, 0)
	if err != nil && n == 0 {
		f.Close()
		return nil, nil, fmt.Errorf("sniff %s: %w", path, err)
	}
	sniff = sniff[:n]

	var h archivehost.Handler
	switch archivehost.DetectFormat(sniff) {
	case archivehost.FormatPKG:
		h = &archivehost.PKGHandler{}
	case archivehost.FormatExFAT:
		h = &archivehost.ExFATHandler{}
	case archivehost.FormatInstallShield:
		h = &archivehost.InstallShieldHandler{}
	default:
		f.Close()
		return nil, nil, fmt.Errorf("%s: unrecognised archive format", path)
	}

	if err := h.Open(f, info.Size()); err != nil {
		f.Close()
		return nil, nil, err
	}
	return h, f, nil
}
