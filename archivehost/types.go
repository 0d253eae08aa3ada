// Package archivehost dispatches a sniffed archive image to the right
// container parser and adapts it to a uniform Handler interface, the
// shape a surrounding archive-tool host (format registration, item
// listing, on-demand extraction) expects from a plug-in.
package archivehost

import (
	"errors"
	"io"
	"time"
)

// ErrNotImplemented is returned by Handler implementations for
// container formats this repository only detects, not parses.
var ErrNotImplemented = errors.New("archivehost: format recognised but not implemented")

// Format identifies a sniffed container kind.
type Format int

const (
	FormatUnknown Format = iota
	FormatPKG
	FormatExFAT
	FormatInstallShield
)

func (f Format) String() string {
	switch f {
	case FormatPKG:
		return "PKG"
	case FormatExFAT:
		return "ExFAT"
	case FormatInstallShield:
		return "InstallShield"
	default:
		return "unknown"
	}
}

// ItemInfo is the host-facing description of one archived item.
type ItemInfo struct {
	Path        string
	Size        int64
	PackedSize  int64
	IsDirectory bool
	MTime       time.Time
	CTime       time.Time
	ATime       time.Time
	Attributes  uint32
}

// Handler is the contract a host framework drives: open a stream,
// enumerate items, and extract one by index.
type Handler interface {
	Open(r io.ReaderAt, size int64) error
	NumItems() int
	Item(i int) (ItemInfo, error)
	Extract(i int) ([]byte, error)
}
