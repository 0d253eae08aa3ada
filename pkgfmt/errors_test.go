package pkgfmt

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with detail",
			err:  &Error{Op: "ParseHeader", Kind: BadMagic, Detail: "magic mismatch"},
			want: "pkgfmt: ParseHeader: bad magic: magic mismatch",
		},
		{
			name: "without detail",
			err:  &Error{Op: "ParseFileTable", Kind: Truncated},
			want: "pkgfmt: ParseFileTable: truncated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := wrapErr("ParseHeader", ShortRead, inner)

	if !errors.Is(err, inner) {
		t.Errorf("errors.Is(wrapErr(...), inner) = false, want true")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		want bool
	}{
		{"matching kind", newErr("ParseHeader", BadMagic, "x"), BadMagic, true},
		{"mismatched kind", newErr("ParseHeader", BadMagic, "x"), Malformed, false},
		{"non-*Error", errors.New("plain"), BadMagic, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKind(tt.err, tt.kind); got != tt.want {
				t.Errorf("IsKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{BadMagic, "bad magic"},
		{ShortRead, "short read"},
		{Malformed, "malformed"},
		{Unsupported, "unsupported"},
		{DecryptionFailed, "decryption failed"},
		{Truncated, "truncated"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
