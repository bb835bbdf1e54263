package types_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/downfa11-org/go-eventfs/pkg/types"
)

func TestIndexBlockRoundTrip(t *testing.T) {
	idx := types.IndexBlock{
		Height:    1,
		DataSize:  100,
		StartIdx:  200,
		EndIdx:    300,
		Timestamp: 123456789,
	}

	buf := make([]byte, types.IndexBlockSize)
	if err := idx.Marshal(buf); err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out types.IndexBlock
	if err := out.Unmarshal(buf); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out != idx {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, idx)
	}
}

// Pins the exact v1 byte layout: five little-endian u64 fields in the order
// height, data_size, start_idx, end_idx, timestamp, 40 bytes total.
func TestIndexBlockByteLayout(t *testing.T) {
	idx := types.IndexBlock{
		Height:    0x0102030405060708,
		DataSize:  0x1112131415161718,
		StartIdx:  0x2122232425262728,
		EndIdx:    0x3132333435363738,
		Timestamp: 0x4142434445464748,
	}

	buf := make([]byte, types.IndexBlockSize)
	if err := idx.Marshal(buf); err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := []byte{
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x18, 0x17, 0x16, 0x15, 0x14, 0x13, 0x12, 0x11,
		0x28, 0x27, 0x26, 0x25, 0x24, 0x23, 0x22, 0x21,
		0x38, 0x37, 0x36, 0x35, 0x34, 0x33, 0x32, 0x31,
		0x48, 0x47, 0x46, 0x45, 0x44, 0x43, 0x42, 0x41,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("byte layout mismatch:\n got %x\nwant %x", buf, want)
	}
}

func TestIndexBlockShortBuffer(t *testing.T) {
	var idx types.IndexBlock

	if err := idx.Marshal(make([]byte, 32)); !errors.Is(err, types.ErrShortBuffer) {
		t.Errorf("marshal into 32 bytes: got %v, want ErrShortBuffer", err)
	}
	if err := idx.Unmarshal(make([]byte, 32)); !errors.Is(err, types.ErrShortBuffer) {
		t.Errorf("unmarshal from 32 bytes: got %v, want ErrShortBuffer", err)
	}
}

func TestIndexBlockBlocks(t *testing.T) {
	idx := types.IndexBlock{StartIdx: 5, EndIdx: 8}
	if got := idx.Blocks(); got != 3 {
		t.Errorf("Blocks() = %d, want 3", got)
	}

	zeroed := types.IndexBlock{}
	if got := zeroed.Blocks(); got != 0 {
		t.Errorf("Blocks() on zeroed record = %d, want 0", got)
	}
}
