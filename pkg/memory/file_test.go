package memory_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/downfa11-org/go-eventfs/pkg/memory"
)

func TestFileRegionCreateAndSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.dat")

	r, err := memory.OpenFile(path, 4096)
	if err != nil {
		t.Fatalf("failed to open file region: %v", err)
	}
	defer r.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() < 4096 {
		t.Errorf("region file size %d, want >= 4096", info.Size())
	}
}

func TestFileRegionWriteReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.dat")

	r, err := memory.OpenFile(path, 8192)
	if err != nil {
		t.Fatalf("failed to open file region: %v", err)
	}
	defer r.Close()

	data := []byte("block data payload")
	if _, err := r.WriteAt(data, 1024); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := make([]byte, len(data))
	if _, err := r.ReadAt(out, 1024); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("read back %q, want %q", out, data)
	}
}

func TestFileRegionReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.dat")

	r, err := memory.OpenFile(path, 8192)
	if err != nil {
		t.Fatalf("failed to open file region: %v", err)
	}

	data := []byte("survives reopen")
	if _, err := r.WriteAt(data, 256); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	r2, err := memory.OpenFile(path, 8192)
	if err != nil {
		t.Fatalf("failed to reopen file region: %v", err)
	}
	defer r2.Close()

	out := make([]byte, len(data))
	if _, err := r2.ReadAt(out, 256); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("read back %q after reopen, want %q", out, data)
	}
}
