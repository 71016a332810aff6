// Package osfile implements the File Handle layer (spec.md §4.1): an
// owned operating-system file descriptor providing positional read and
// write, memory mapping, advisory locking, flushing, size queries, and
// truncation. A File has single-owner move semantics in spirit — Go
// callers simply don't copy the struct — and Close is idempotent.
package osfile

import (
	"errors"
	"io/fs"
	"os"
)

// ErrWouldBlock is returned by Create/Open when the advisory exclusive
// lock is held by another process.
var ErrWouldBlock = errors.New("osfile: advisory lock held by another process")

// File is a single-owner wrapper around an OS file descriptor.
type File struct {
	f       *os.File
	random  bool    // true once SetRandomAdvice has been applied
	mapping uintptr // Windows file-mapping handle backing the current Mmap view, if any
}

// Create opens path with create/truncate/read-write, applies mode
// (defaulting to 0644), and takes a non-blocking exclusive advisory
// lock. Returns ErrWouldBlock if the lock is already held.
func Create(path string, mode fs.FileMode) (*File, error) {
	if mode == 0 {
		mode = 0644
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode)
	if err != nil {
		return nil, err
	}
	if err := lockExclusive(f); err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f}, nil
}

// Open opens an existing path, read-only or read-write, and applies the
// same advisory lock as Create.
func Open(path string, readOnly bool) (*File, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	if err := lockExclusive(f); err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f}, nil
}

// IsNotExist reports whether err indicates the path did not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Close releases the advisory lock, then closes the descriptor.
// Idempotent: closing an already-closed File is a no-op. Never closes
// file descriptors 0 or 1.
func (fh *File) Close() error {
	if fh.f == nil {
		return nil
	}
	if fd := fh.f.Fd(); fd == 0 || fd == 1 {
		fh.f = nil
		return nil
	}
	unlockExclusive(fh.f)
	err := fh.f.Close()
	fh.f = nil
	return err
}

// Fd returns the underlying OS file descriptor.
func (fh *File) Fd() uintptr { return fh.f.Fd() }

// Pread reads len(buf) bytes starting at offset, looping over partial
// reads until the buffer is full or a zero-return short read signals
// end-of-file, which is treated as an error: partial reads are never
// returned as success.
func (fh *File) Pread(offset int64, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := fh.f.ReadAt(buf[total:], offset+int64(total))
		total += n
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	if total != len(buf) {
		return errShortIO
	}
	return nil
}

// Pwrite writes the full buffer at offset, looping over partial writes
// until complete.
func (fh *File) Pwrite(offset int64, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := fh.f.WriteAt(buf[total:], offset+int64(total))
		total += n
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	if total != len(buf) {
		return errShortIO
	}
	return nil
}

var errShortIO = errors.New("osfile: short read or write")

// Seek repositions the file's offset.
func (fh *File) Seek(offset int64, whence int) (int64, error) {
	return fh.f.Seek(offset, whence)
}

// Tell returns the current file offset.
func (fh *File) Tell() (int64, error) {
	return fh.f.Seek(0, os.SEEK_CUR)
}

// FileSize returns the file's size via stat, not by seeking to the end
// (spec.md §9, Open Questions: stat-based size is the definitive
// behavior here).
func (fh *File) FileSize() (int64, error) {
	fi, err := fh.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Truncate resizes the file to exactly newSize bytes.
func (fh *File) Truncate(newSize int64) error {
	return fh.f.Truncate(newSize)
}

// Flush durably syncs the file, preferring a metadata-free sync
// (fdatasync) where the platform provides one.
func (fh *File) Flush() error {
	return flushFD(fh.f)
}

// Granularity returns the OS memory-mapping granularity (typically the
// OS page size), used to decide mmap feasibility.
func Granularity() int {
	return granularity()
}
