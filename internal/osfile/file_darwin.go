//go:build darwin

package osfile

import "os"

// flushFD falls back to a full fsync: macOS has no fdatasync.
func flushFD(f *os.File) error {
	return f.Sync()
}

// fadvise is a no-op on macOS: there is no posix_fadvise equivalent
// exposed by golang.org/x/sys/unix for this platform.
func fadvise(f *os.File) error {
	return nil
}
