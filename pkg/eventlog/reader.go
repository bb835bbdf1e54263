package eventlog

import (
	"fmt"

	"github.com/downfa11-org/go-eventfs/pkg/layout"
	"github.com/downfa11-org/go-eventfs/pkg/memory"
	"github.com/downfa11-org/go-eventfs/pkg/types"
)

// Reader resolves message identifiers to payloads through the index zone.
type Reader struct {
	region memory.Region
	layout *layout.Layout
}

func NewReader(region memory.Region, l *layout.Layout) *Reader {
	return &Reader{region: region, layout: l}
}

// ReadOne returns the message whose append returned id. Identifiers that
// were never handed out by Append resolve to ErrRecordNotFound: the slot is
// either all zeroes or interior to a multi-block message, and in both cases
// its StartIdx does not point back at itself.
func (r *Reader) ReadOne(id uint64) (types.Message, error) {
	idx, err := r.readIndex(id)
	if err != nil {
		return types.Message{}, err
	}

	payload := make([]byte, idx.DataSize)
	if idx.DataSize > 0 {
		if _, err := r.region.ReadAt(payload, int64(r.layout.DataBlockOffset(idx.StartIdx))); err != nil {
			return types.Message{}, fmt.Errorf("read payload at block %d: %w", idx.StartIdx, err)
		}
	}

	return types.Message{
		ID:        idx.StartIdx,
		Payload:   payload,
		Timestamp: idx.Timestamp,
	}, nil
}

// ReadRange reads count messages at identifiers start, start+1, and so on.
// It strides one block at a time, so it is only correct over a run of
// single-block messages; a multi-block message inside the range makes the
// interior slots fail with ErrRecordNotFound. The first failure aborts the
// whole read.
func (r *Reader) ReadRange(start, count uint64) ([]types.Message, error) {
	messages := make([]types.Message, 0, count)
	for id := start; id < start+count; id++ {
		msg, err := r.ReadOne(id)
		if err != nil {
			return nil, fmt.Errorf("read message %d in range [%d, %d): %w", id, start, start+count, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *Reader) readIndex(id uint64) (types.IndexBlock, error) {
	if id >= r.layout.IndexSlots {
		return types.IndexBlock{}, fmt.Errorf("identifier %d outside %d index slots: %w", id, r.layout.IndexSlots, ErrRecordNotFound)
	}

	buf := make([]byte, types.IndexBlockSize)
	if _, err := r.region.ReadAt(buf, int64(r.layout.IndexSlotOffset(id))); err != nil {
		return types.IndexBlock{}, fmt.Errorf("read index record %d: %w", id, err)
	}

	var idx types.IndexBlock
	if err := idx.Unmarshal(buf); err != nil {
		return types.IndexBlock{}, fmt.Errorf("decode index record %d: %w", id, err)
	}

	if idx.EndIdx <= idx.StartIdx || idx.StartIdx != id {
		return types.IndexBlock{}, fmt.Errorf("index slot %d holds no record: %w", id, ErrRecordNotFound)
	}
	if idx.DataSize > idx.Blocks()*layout.BlockSize {
		return types.IndexBlock{}, fmt.Errorf("index record %d claims %d bytes over %d blocks: %w",
			id, idx.DataSize, idx.Blocks(), types.ErrCorruptRecord)
	}
	return idx, nil
}
