package types

import (
	"encoding/binary"
	"fmt"
)

// EncodeString serializes a string as a u64 little-endian length prefix
// followed by the raw bytes, matching the stream's v1 string layout.
func EncodeString(s string) []byte {
	buf := make([]byte, 8+len(s))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(s)))
	copy(buf[8:], s)
	return buf
}

// DecodeString parses a string encoded by EncodeString.
func DecodeString(data []byte) (string, error) {
	if len(data) < 8 {
		return "", fmt.Errorf("decode string: %w", ErrShortBuffer)
	}
	n := binary.LittleEndian.Uint64(data[0:8])
	if n > uint64(len(data))-8 {
		return "", fmt.Errorf("decode string: length %d exceeds buffer: %w", n, ErrCorruptRecord)
	}
	return string(data[8 : 8+n]), nil
}
