package memory

import (
	"fmt"
	"io"
)

// Region is the flat byte-addressable memory the engine runs on. Any
// *os.File satisfies it; Buffer provides an owned in-memory variant.
type Region interface {
	io.ReaderAt
	io.WriterAt
}

// Buffer is a fixed-size in-memory region. Out-of-range access is an error
// rather than a grow; the engine is expected to stay inside the layout it
// was opened with.
type Buffer struct {
	data []byte
}

func NewBuffer(size uint64) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

func (b *Buffer) Len() uint64 {
	return uint64(len(b.data))
}

func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(b.data)) {
		return 0, fmt.Errorf("buffer read [%d, %d) out of range 0..%d", off, off+int64(len(p)), len(b.data))
	}
	return copy(p, b.data[off:]), nil
}

func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(b.data)) {
		return 0, fmt.Errorf("buffer write [%d, %d) out of range 0..%d", off, off+int64(len(p)), len(b.data))
	}
	return copy(b.data[off:], p), nil
}
