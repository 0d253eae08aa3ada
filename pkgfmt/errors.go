package pkgfmt

import (
	"errors"
	"fmt"
)

// Kind categorizes the errors this package returns, so callers can
// branch on failure class (errors.Is/errors.As over *Error) instead of
// string-matching messages.
type Kind int

const (
	// BadMagic indicates a header or block signature mismatch.
	BadMagic Kind = iota
	// ShortRead indicates the backing stream returned fewer bytes than requested.
	ShortRead
	// Malformed indicates a value out of its declared range (name length,
	// table size, entry offset, ...).
	Malformed
	// Unsupported indicates a recognised but unimplemented feature (an
	// unknown cipher type, for example).
	Unsupported
	// DecryptionFailed indicates the keystream produced output but a
	// downstream consistency check suggests the ciphertext was corrupt.
	DecryptionFailed
	// Truncated indicates a decoded size would exceed a hard limit.
	Truncated
)

func (k Kind) String() string {
	switch k {
	case BadMagic:
		return "bad magic"
	case ShortRead:
		return "short read"
	case Malformed:
		return "malformed"
	case Unsupported:
		return "unsupported"
	case DecryptionFailed:
		return "decryption failed"
	case Truncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Error is the structured error type returned by this package. Op
// names the operation that failed (ParseHeader, ParseFileTable, ...);
// Detail is a human-readable message; Err, if set, is the underlying
// cause and is reachable via errors.Unwrap.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("pkgfmt: %s: %s: %s", e.Op, e.Kind, e.Detail)
	}
	return fmt.Sprintf("pkgfmt: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newErr(op string, kind Kind, detail string) error {
	return &Error{Op: op, Kind: kind, Detail: detail}
}

func wrapErr(op string, kind Kind, err error) error {
	return &Error{Op: op, Kind: kind, Detail: err.Error(), Err: err}
}

// IsKind reports whether err is a *Error (directly or via wrapping)
// of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// Sentinel errors kept for callers that prefer errors.Is over Kind
// inspection for the handful of conditions that never carry detail.
var (
	ErrBadMagic    = newErr("ParseHeader", BadMagic, "magic mismatch")
	ErrShortHeader = newErr("ParseHeader", ShortRead, "fewer than 128 bytes available")
)
