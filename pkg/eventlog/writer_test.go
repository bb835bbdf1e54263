package eventlog_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/downfa11-org/go-eventfs/pkg/eventlog"
	"github.com/downfa11-org/go-eventfs/pkg/layout"
	"github.com/downfa11-org/go-eventfs/pkg/memory"
	"github.com/downfa11-org/go-eventfs/pkg/types"
)

func smallLayout() *layout.Layout {
	return layout.New(layout.Geometry{FreeSlotCapacity: 4096, IndexSlots: 64})
}

func zeroClock() uint64 { return 0 }

func TestWriterAppendSingleBlock(t *testing.T) {
	l := smallLayout()
	region := memory.NewBuffer(l.Size())
	w := eventlog.NewWriter(region, l, zeroClock, 0)

	idx, err := w.Append([]byte("Hello, world!"))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if idx.StartIdx != 0 || idx.EndIdx != 1 {
		t.Errorf("index span [%d, %d), want [0, 1)", idx.StartIdx, idx.EndIdx)
	}
	if idx.DataSize != 13 {
		t.Errorf("DataSize = %d, want 13", idx.DataSize)
	}
	if w.BlockOffset() != 1 {
		t.Errorf("cursor = %d, want 1", w.BlockOffset())
	}

	// The record must land at index slot 0 exactly as Marshal encodes it.
	buf := make([]byte, types.IndexBlockSize)
	if _, err := region.ReadAt(buf, int64(l.IndexSlotOffset(0))); err != nil {
		t.Fatalf("read index slot: %v", err)
	}
	var stored types.IndexBlock
	if err := stored.Unmarshal(buf); err != nil {
		t.Fatalf("decode stored record: %v", err)
	}
	if stored != idx {
		t.Errorf("stored record %+v, want %+v", stored, idx)
	}

	payload := make([]byte, idx.DataSize)
	if _, err := region.ReadAt(payload, int64(l.DataBlockOffset(0))); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if !bytes.Equal(payload, []byte("Hello, world!")) {
		t.Errorf("payload = %q", payload)
	}
}

func TestWriterMultiBlockAdvancesCursor(t *testing.T) {
	l := smallLayout()
	region := memory.NewBuffer(l.Size())
	w := eventlog.NewWriter(region, l, zeroClock, 0)

	idx, err := w.Append(make([]byte, layout.BlockSize+1))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if idx.EndIdx-idx.StartIdx != 2 {
		t.Errorf("blocks = %d, want 2", idx.EndIdx-idx.StartIdx)
	}
	if w.BlockOffset() != 2 {
		t.Errorf("cursor = %d, want 2", w.BlockOffset())
	}

	next, err := w.Append([]byte("x"))
	if err != nil {
		t.Fatalf("second append failed: %v", err)
	}
	if next.StartIdx != idx.EndIdx {
		t.Errorf("second record starts at %d, want %d (contiguous data zone)", next.StartIdx, idx.EndIdx)
	}
}

func TestWriterEmptyPayloadConsumesOneBlock(t *testing.T) {
	l := smallLayout()
	region := memory.NewBuffer(l.Size())
	w := eventlog.NewWriter(region, l, zeroClock, 0)

	idx, err := w.Append(nil)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if idx.DataSize != 0 {
		t.Errorf("DataSize = %d, want 0", idx.DataSize)
	}
	if idx.EndIdx-idx.StartIdx != 1 {
		t.Errorf("blocks = %d, want 1 (empty append still owns a slot)", idx.EndIdx-idx.StartIdx)
	}
}

func TestWriterRejectsOversizeBeforeWriting(t *testing.T) {
	l := smallLayout()
	region := memory.NewBuffer(l.Size())
	w := eventlog.NewWriter(region, l, zeroClock, 0)

	// 65 blocks against 64 slots
	_, err := w.Append(make([]byte, 65*layout.BlockSize))
	if !errors.Is(err, eventlog.ErrPayloadTooLarge) {
		t.Fatalf("got %v, want ErrPayloadTooLarge", err)
	}
	if w.BlockOffset() != 0 {
		t.Errorf("cursor moved to %d on failed append", w.BlockOffset())
	}

	// Index slot 0 must still be untouched.
	buf := make([]byte, types.IndexBlockSize)
	if _, err := region.ReadAt(buf, int64(l.IndexSlotOffset(0))); err != nil {
		t.Fatalf("read index slot: %v", err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("index slot byte %d is %d after rejected append", i, b)
		}
	}
}

func TestWriterRejectsWhenIdentifierSpaceExhausted(t *testing.T) {
	l := layout.New(layout.Geometry{FreeSlotCapacity: 4096, IndexSlots: 2})
	region := memory.NewBuffer(l.Size())
	w := eventlog.NewWriter(region, l, zeroClock, 0)

	if _, err := w.Append([]byte("a")); err != nil {
		t.Fatalf("append 1 failed: %v", err)
	}
	if _, err := w.Append([]byte("b")); err != nil {
		t.Fatalf("append 2 failed: %v", err)
	}
	if _, err := w.Append([]byte("c")); !errors.Is(err, eventlog.ErrPayloadTooLarge) {
		t.Errorf("append past last slot: got %v, want ErrPayloadTooLarge", err)
	}
}

func TestWriterStampsClock(t *testing.T) {
	l := smallLayout()
	region := memory.NewBuffer(l.Size())

	var now uint64 = 42
	w := eventlog.NewWriter(region, l, func() uint64 { return now }, 0)

	idx, err := w.Append([]byte("tick"))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if idx.Timestamp != 42 {
		t.Errorf("Timestamp = %d, want 42", idx.Timestamp)
	}

	now = 43
	idx, err = w.Append([]byte("tock"))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if idx.Timestamp != 43 {
		t.Errorf("Timestamp = %d, want 43", idx.Timestamp)
	}
}
