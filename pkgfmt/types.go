package pkgfmt

// Type is the PKG package type field from the header (offset 0x06,
// 2 bytes, big-endian). It also doubles as the cipher selector: the
// keystream's per-block construction is chosen by this value (see
// keystream.go).
type Type uint16

const (
	// TypePS3 is a retail PS3 package, keystreamed with SHA-1.
	TypePS3 Type = 1
	// TypePSP is a PSP package.
	TypePSP Type = 2
	// TypePSV is a PS Vita package.
	TypePSV Type = 3
	// TypePSM is a PS Mobile package.
	TypePSM Type = 4

	// TypeDebugPS3 selects the AES-128 keystream under PS3PKGAESKey.
	// Not part of the header's declared {1,2,3,4} range; it is the
	// pkg_type value the keystream construction itself switches on
	// (spec ch. 4.3) for debug/retail-AES archives.
	TypeDebugPS3 Type = 0x8001
	// TypeDebugPSP selects the AES-128 keystream under PSPPKGAESKey.
	TypeDebugPSP Type = 0x8002
)

func (t Type) valid() bool {
	switch t {
	case TypePS3, TypePSP, TypePSV, TypePSM:
		return true
	default:
		return false
	}
}

// String returns a human-readable label for the package type.
func (t Type) String() string {
	switch t {
	case TypePS3:
		return "PS3"
	case TypePSP:
		return "PSP"
	case TypePSV:
		return "PSV"
	case TypePSM:
		return "PSM"
	case TypeDebugPS3:
		return "PS3-debug"
	case TypeDebugPSP:
		return "PSP-debug"
	default:
		return "unknown"
	}
}

// EntryType is the file-table entry's high flag byte.
type EntryType uint8

const (
	EntryNPDRM     EntryType = 1
	EntryNPDRMEdat EntryType = 3
	EntryRegular   EntryType = 4
	EntryFolder    EntryType = 5
)

const (
	entryFlagsTypeShift = 24
	entryFlagsTypeMask  = 0xFF << entryFlagsTypeShift

	maxNameLen   = 4096
	nameAlign    = 16
	headerSize   = 128
	entrySize    = 32
	maxBlockSize = 900000 // same value as bzip2x's own maxBlockSize (the 900KB scratch budget)
)
