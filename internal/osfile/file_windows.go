//go:build windows

package osfile

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// lockExclusive takes a non-blocking exclusive advisory lock over the
// whole file via LockFileEx, mirroring the teacher's lock_windows.go.
func lockExclusive(f *os.File) error {
	handle := windows.Handle(f.Fd())
	var overlapped windows.Overlapped
	err := windows.LockFileEx(handle, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, &overlapped)
	if err == nil {
		return nil
	}
	if err == windows.ERROR_LOCK_VIOLATION || err == windows.ERROR_IO_PENDING {
		return ErrWouldBlock
	}
	return err
}

func unlockExclusive(f *os.File) {
	handle := windows.Handle(f.Fd())
	var overlapped windows.Overlapped
	windows.UnlockFileEx(handle, 0, 1, 0, &overlapped)
}

func granularity() int {
	var si windows.SystemInfo
	windows.GetSystemInfo(&si)
	return int(si.PageSize)
}

func flushFD(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}

// fadvise has no Windows equivalent; PrefetchVirtualMemory covers a
// different use case (bulk page-in, not an access-pattern hint) so
// this stays a no-op.
func fadvise(f *os.File) error {
	return nil
}

// Mmap creates a private (copy-on-write) view of length bytes starting
// at offset. Windows has no native MAP_PRIVATE-over-a-writable-mapping
// option for FILE_MAP_WRITE, so callers that need write-through-free
// mmap semantics arrange for writes to go through Pwrite instead, same
// as on unix (spec.md §9).
func (fh *File) Mmap(offset int64, length int, readOnly bool) ([]byte, error) {
	handle := windows.Handle(fh.f.Fd())

	prot := uint32(windows.PAGE_READONLY)
	access := uint32(windows.FILE_MAP_READ)
	if !readOnly {
		prot = windows.PAGE_WRITECOPY
		access = windows.FILE_MAP_COPY
	}

	sizeHigh := uint32(uint64(offset+int64(length)) >> 32)
	sizeLow := uint32(uint64(offset + int64(length)))
	mapping, err := windows.CreateFileMapping(handle, nil, prot, sizeHigh, sizeLow, nil)
	if err != nil {
		return nil, err
	}

	offsetHigh := uint32(uint64(offset) >> 32)
	offsetLow := uint32(uint64(offset))
	addr, err := windows.MapViewOfFile(mapping, access, offsetHigh, offsetLow, uintptr(length))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, err
	}

	var data []byte
	sh := (*struct {
		Data uintptr
		Len  int
		Cap  int
	})(unsafe.Pointer(&data))
	sh.Data = addr
	sh.Len = length
	sh.Cap = length

	fh.mapping = uintptr(mapping)
	return data, nil
}

// Munmap unmaps a view previously returned by Mmap and closes the
// backing mapping handle.
func (fh *File) Munmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	if err := windows.UnmapViewOfFile(addr); err != nil {
		return err
	}
	if fh.mapping != 0 {
		windows.CloseHandle(windows.Handle(fh.mapping))
		fh.mapping = 0
	}
	return nil
}

// SetRandomAdvice is a no-op on Windows: there is no portable
// equivalent to madvise(MADV_RANDOM) in golang.org/x/sys/windows.
func (fh *File) SetRandomAdvice(mapped []byte) error {
	fh.random = true
	return nil
}
