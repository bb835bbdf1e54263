//go:build linux
// +build linux

package memory

import (
	"os"

	"golang.org/x/sys/unix"
)

func preallocate(f *os.File, size uint64) error {
	if err := unix.Fallocate(int(f.Fd()), 0, 0, int64(size)); err != nil {
		// Some filesystems (tmpfs before 3.5, some network mounts) reject
		// fallocate; fall back to a sparse truncate.
		return f.Truncate(int64(size))
	}

	// Block-addressed access pattern, readahead does not help
	_ = unix.Fadvise(int(f.Fd()), 0, int64(size), unix.FADV_RANDOM)
	return nil
}
