//go:build unix

package osfile

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// lockExclusive takes a non-blocking exclusive advisory flock on f.
func lockExclusive(f *os.File) error {
	err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err == nil {
		return nil
	}
	if err == syscall.EWOULDBLOCK || err == syscall.EAGAIN {
		return ErrWouldBlock
	}
	return err
}

func unlockExclusive(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}

func granularity() int {
	return unix.Getpagesize()
}

// Mmap maps length bytes of the file starting at offset. The mapping is
// always PRIVATE (copy-on-write): writes through it are never
// propagated back to the file, which is why growth never needs to
// touch an active mapping (spec.md §9).
func (fh *File) Mmap(offset int64, length int, readOnly bool) ([]byte, error) {
	prot := unix.PROT_READ
	if !readOnly {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(fh.f.Fd()), offset, length, prot, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Munmap releases a mapping previously returned by Mmap.
func (fh *File) Munmap(data []byte) error {
	return unix.Munmap(data)
}

// SetRandomAdvice applies a random-access hint to both the file
// descriptor and, when non-nil, an active mapping.
func (fh *File) SetRandomAdvice(mapped []byte) error {
	fh.random = true
	if err := fadvise(fh.f); err != nil {
		return err
	}
	if mapped != nil {
		return unix.Madvise(mapped, unix.MADV_RANDOM)
	}
	return nil
}
