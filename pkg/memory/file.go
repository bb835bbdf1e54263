package memory

import (
	"fmt"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/downfa11-org/go-eventfs/util"
)

// FileRegion is a file-backed region. Writes go through the file handle;
// reads go through a shared memory mapping of the same file, so a write is
// visible to subsequent reads without an explicit flush.
type FileRegion struct {
	path   string
	file   *os.File
	mapper *mmap.ReaderAt
}

// OpenFile creates or opens path and ensures it spans at least size bytes.
// A fresh file is preallocated sparsely, so a large layout does not cost
// its full size on disk up front.
func OpenFile(path string, size uint64) (*FileRegion, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		closeQuiet(f, path)
		return nil, fmt.Errorf("stat region file: %w", err)
	}
	if uint64(info.Size()) < size {
		if err := preallocate(f, size); err != nil {
			closeQuiet(f, path)
			return nil, fmt.Errorf("preallocate region file to %d bytes: %w", size, err)
		}
	}

	mapper, err := mmap.Open(path)
	if err != nil {
		closeQuiet(f, path)
		return nil, fmt.Errorf("map region file: %w", err)
	}

	return &FileRegion{path: path, file: f, mapper: mapper}, nil
}

func (r *FileRegion) WriteAt(p []byte, off int64) (int, error) {
	return r.file.WriteAt(p, off)
}

func (r *FileRegion) ReadAt(p []byte, off int64) (int, error) {
	return r.mapper.ReadAt(p, off)
}

func (r *FileRegion) Path() string {
	return r.path
}

// Sync flushes outstanding writes to the backing file.
func (r *FileRegion) Sync() error {
	return r.file.Sync()
}

func (r *FileRegion) Close() error {
	var errs []error
	if r.mapper != nil {
		if err := r.mapper.Close(); err != nil {
			errs = append(errs, err)
		}
		r.mapper = nil
	}
	if r.file != nil {
		if err := r.file.Sync(); err != nil {
			errs = append(errs, err)
		}
		if err := r.file.Close(); err != nil {
			errs = append(errs, err)
		}
		r.file = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close region file: %v", errs)
	}
	return nil
}

func closeQuiet(f *os.File, path string) {
	if err := f.Close(); err != nil {
		util.Error("failed to close %s: %v", path, err)
	}
}
