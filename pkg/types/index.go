package types

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// IndexBlockSize is the serialized size of one index record:
	// height(8) + data_size(8) + start_idx(8) + end_idx(8) + timestamp(8).
	IndexBlockSize = 40
)

var (
	ErrShortBuffer   = errors.New("buffer too short")
	ErrCorruptRecord = errors.New("corrupt record")
)

// IndexBlock describes one appended payload: where it lives in the data
// zone, how many bytes of it are real, and when it was written. One record
// is stored per allocated block run, at index slot StartIdx.
type IndexBlock struct {
	Height    uint64
	DataSize  uint64
	StartIdx  uint64
	EndIdx    uint64
	Timestamp uint64
}

// Marshal writes the record into dst, which must hold IndexBlockSize bytes.
// Fields are little-endian, in declaration order.
func (b *IndexBlock) Marshal(dst []byte) error {
	if len(dst) < IndexBlockSize {
		return fmt.Errorf("marshal index block: %w", ErrShortBuffer)
	}
	binary.LittleEndian.PutUint64(dst[0:8], b.Height)
	binary.LittleEndian.PutUint64(dst[8:16], b.DataSize)
	binary.LittleEndian.PutUint64(dst[16:24], b.StartIdx)
	binary.LittleEndian.PutUint64(dst[24:32], b.EndIdx)
	binary.LittleEndian.PutUint64(dst[32:40], b.Timestamp)
	return nil
}

// Unmarshal parses the record from src.
func (b *IndexBlock) Unmarshal(src []byte) error {
	if len(src) < IndexBlockSize {
		return fmt.Errorf("unmarshal index block: %w", ErrShortBuffer)
	}
	b.Height = binary.LittleEndian.Uint64(src[0:8])
	b.DataSize = binary.LittleEndian.Uint64(src[8:16])
	b.StartIdx = binary.LittleEndian.Uint64(src[16:24])
	b.EndIdx = binary.LittleEndian.Uint64(src[24:32])
	b.Timestamp = binary.LittleEndian.Uint64(src[32:40])
	return nil
}

// Blocks returns how many data-zone blocks the record claims.
func (b *IndexBlock) Blocks() uint64 {
	if b.EndIdx <= b.StartIdx {
		return 0
	}
	return b.EndIdx - b.StartIdx
}
