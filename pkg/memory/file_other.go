//go:build !linux
// +build !linux

package memory

import "os"

func preallocate(f *os.File, size uint64) error {
	return f.Truncate(int64(size))
}
