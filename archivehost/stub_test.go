package archivehost

import (
	"bytes"
	"errors"
	"testing"
)

func TestExFATHandler_ReturnsNotImplemented(t *testing.T) {
	h := &ExFATHandler{}
	if err := h.Open(bytes.NewReader(nil), 0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if h.NumItems() != 0 {
		t.Errorf("NumItems() = %d, want 0", h.NumItems())
	}
	if _, err := h.Item(0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Item() error = %v, want ErrNotImplemented", err)
	}
	if _, err := h.Extract(0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Extract() error = %v, want ErrNotImplemented", err)
	}
}

func TestInstallShieldHandler_ReturnsNotImplemented(t *testing.T) {
	h := &InstallShieldHandler{}
	if err := h.Open(bytes.NewReader(nil), 0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := h.Extract(0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Extract() error = %v, want ErrNotImplemented", err)
	}
}
