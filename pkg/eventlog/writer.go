package eventlog

import (
	"fmt"

	"github.com/downfa11-org/go-eventfs/pkg/layout"
	"github.com/downfa11-org/go-eventfs/pkg/memory"
	"github.com/downfa11-org/go-eventfs/pkg/types"
)

// Writer appends payloads to the data zone and records one index block per
// append. Not safe for concurrent use; the engine serializes access to it.
type Writer struct {
	region memory.Region
	layout *layout.Layout
	clock  Clock

	// blockOffset is the next free data-zone block number. It doubles as
	// the identifier handed out for the next append.
	blockOffset uint64
}

func NewWriter(region memory.Region, l *layout.Layout, clock Clock, blockOffset uint64) *Writer {
	return &Writer{
		region:      region,
		layout:      l,
		clock:       clock,
		blockOffset: blockOffset,
	}
}

// Append writes payload into the data zone and its index record into the
// index zone, then advances the cursor. Every append consumes at least one
// block so the record stays addressable, even for an empty payload.
// Both failure checks run before the first write: a failed append never
// touches the region.
func (w *Writer) Append(payload []byte) (types.IndexBlock, error) {
	size := uint64(len(payload))
	blocks := layout.BlockCount(size)
	if blocks == 0 {
		blocks = 1
	}

	if blocks > w.layout.IndexSlots || w.blockOffset > w.layout.IndexSlots-blocks {
		return types.IndexBlock{}, fmt.Errorf(
			"append of %d blocks at cursor %d exceeds %d index slots: %w",
			blocks, w.blockOffset, w.layout.IndexSlots, ErrPayloadTooLarge)
	}

	idx := types.IndexBlock{
		Height:    w.blockOffset,
		DataSize:  size,
		StartIdx:  w.blockOffset,
		EndIdx:    w.blockOffset + blocks,
		Timestamp: w.clock(),
	}

	buf := make([]byte, types.IndexBlockSize)
	if err := idx.Marshal(buf); err != nil {
		return types.IndexBlock{}, fmt.Errorf("encode index record: %w", err)
	}
	if _, err := w.region.WriteAt(buf, int64(w.layout.IndexSlotOffset(w.blockOffset))); err != nil {
		return types.IndexBlock{}, fmt.Errorf("write index record %d: %w", w.blockOffset, err)
	}

	if size > 0 {
		if _, err := w.region.WriteAt(payload, int64(w.layout.DataBlockOffset(w.blockOffset))); err != nil {
			return types.IndexBlock{}, fmt.Errorf("write payload at block %d: %w", w.blockOffset, err)
		}
	}

	w.blockOffset += blocks
	return idx, nil
}

// BlockOffset returns the current cursor: the next free block number.
func (w *Writer) BlockOffset() uint64 {
	return w.blockOffset
}
