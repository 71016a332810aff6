//go:build linux

package osfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// flushFD prefers fdatasync over fsync: it skips flushing metadata that
// isn't required for the data to be recoverable, which is
// significantly faster under frequent small commits.
func flushFD(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

func fadvise(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
