package types

import (
	"encoding/binary"
	"fmt"
)

const (
	// MaxTopicHeaderSize bounds the serialized header record; the header
	// area in the layout is sized to exactly this many bytes.
	MaxTopicHeaderSize = 512

	// CurrentBinaryVersion is the on-memory format tag written into every
	// freshly created header.
	CurrentBinaryVersion uint32 = 1_000_000
)

// TopicHeaderBlock identifies the stream. Written once at creation and
// never modified afterwards.
type TopicHeaderBlock struct {
	EventStreamName string
	FirstMessagePtr uint64
	BinaryVersion   uint32
}

// MarshalSize returns the serialized length: u64 name length, name bytes,
// u64 first-message pointer, u32 binary version.
func (h *TopicHeaderBlock) MarshalSize() int {
	return 8 + len(h.EventStreamName) + 8 + 4
}

func (h *TopicHeaderBlock) Marshal() []byte {
	name := []byte(h.EventStreamName)
	buf := make([]byte, h.MarshalSize())
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(name)))
	copy(buf[8:], name)
	off := 8 + len(name)
	binary.LittleEndian.PutUint64(buf[off:off+8], h.FirstMessagePtr)
	binary.LittleEndian.PutUint32(buf[off+8:off+12], h.BinaryVersion)
	return buf
}

func (h *TopicHeaderBlock) Unmarshal(src []byte) error {
	if len(src) < 8 {
		return fmt.Errorf("unmarshal topic header: %w", ErrShortBuffer)
	}
	nameLen := binary.LittleEndian.Uint64(src[0:8])
	if nameLen > uint64(len(src))-8 {
		return fmt.Errorf("unmarshal topic header: name length %d exceeds buffer: %w", nameLen, ErrCorruptRecord)
	}
	off := 8 + int(nameLen)
	if len(src) < off+12 {
		return fmt.Errorf("unmarshal topic header: %w", ErrShortBuffer)
	}
	h.EventStreamName = string(src[8:off])
	h.FirstMessagePtr = binary.LittleEndian.Uint64(src[off : off+8])
	h.BinaryVersion = binary.LittleEndian.Uint32(src[off+8 : off+12])
	return nil
}
