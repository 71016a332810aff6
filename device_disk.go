package pager

import (
	"log"

	"github.com/romz-pl/uppager/internal/osfile"
)

// diskState is the mutable state swapped under DiskDevice's spinlock,
// mirroring the teacher's own Env.dataMap bookkeeping and the original
// DiskDevice::State (device_disk.cc).
type diskState struct {
	file *osfile.File

	mmap        []byte // active mapping, nil if none
	mappedSize  uint64
	fileSize    uint64
	excessAtEnd uint64
}

// DiskDevice backs pages with a file and, where the file size is a
// multiple of the OS mapping granularity and neither DisableMmap nor
// EnableEncryption is set, a PRIVATE (copy-on-write) memory map (spec.md §4.2, §4.3). All operations serialize on mutex.
type DiskDevice struct {
	config *Config
	mutex  Spinlock
	state  diskState
}

// NewDiskDevice returns a DiskDevice bound to config. Neither Create nor
// Open has been called yet.
func NewDiskDevice(config *Config) *DiskDevice {
	return &DiskDevice{config: config}
}

func (d *DiskDevice) Config() *Config { return d.config }

// Create initializes a fresh backing file, applies the configured POSIX
// access advice, and seals the configuration.
func (d *DiskDevice) Create() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	f, err := osfile.Create(d.config.Filename(), d.config.FileMode())
	if err != nil {
		return wrapCreateError(err)
	}
	if d.config.PosixAdvice() == AdviceRandom {
		if err := f.SetRandomAdvice(nil); err != nil {
			f.Close()
			return wrapCreateError(err)
		}
	}

	d.state = diskState{file: f}
	d.config.Seal()
	return nil
}

// Open attaches to an existing backing file. It tries to establish a
// memory mapping covering the whole file; if the file size is not a
// multiple of the mapping granularity, or DisableMmap or EnableEncryption
// is set, or the mmap call itself fails, it falls back to serving every page through
// positional I/O (spec.md §4.3, "mmap fallback").
func (d *DiskDevice) Open() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	readOnly := d.config.HasFlag(ReadOnly)
	f, err := osfile.Open(d.config.Filename(), readOnly)
	if err != nil {
		return wrapOSError(err)
	}
	if d.config.PosixAdvice() == AdviceRandom {
		if err := f.SetRandomAdvice(nil); err != nil {
			f.Close()
			return wrapOSError(err)
		}
	}

	fileSize, err := f.FileSize()
	if err != nil {
		f.Close()
		return wrapOSError(err)
	}

	state := diskState{file: f, fileSize: uint64(fileSize)}

	d.config.Seal()

	// An encrypted file is never mapped: a Borrowed view would expose
	// ciphertext, so every page goes through ReadPage's decrypting path.
	if d.config.HasFlag(DisableMmap) || d.config.HasFlag(EnableEncryption) {
		d.state = state
		return nil
	}

	granularity := uint64(osfile.Granularity())
	if state.fileSize == 0 || state.fileSize%granularity != 0 {
		d.state = state
		return nil
	}

	mapped, mmapErr := f.Mmap(0, int(state.fileSize), readOnly)
	if mmapErr != nil {
		// Mapping failed: log and fall through to read/write, same as
		// the teacher catching the exception in device_disk.cc::open().
		log.Printf("pager: mmap failed for %s, falling back to read/write: %v", d.config.Filename(), mmapErr)
		d.state = state
		return nil
	}
	state.mmap = mapped
	state.mappedSize = state.fileSize

	if d.config.PosixAdvice() == AdviceRandom {
		f.SetRandomAdvice(mapped)
	}

	d.state = state
	return nil
}

// Close releases the mapping (if any) and closes the file.
func (d *DiskDevice) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.state.mmap != nil {
		if err := d.state.file.Munmap(d.state.mmap); err != nil {
			return wrapOSError(err)
		}
		d.state.mmap = nil
		d.state.mappedSize = 0
	}
	if d.state.file == nil {
		return nil
	}
	err := d.state.file.Close()
	d.state.file = nil
	return wrapOSError(err)
}

func (d *DiskDevice) Flush() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return wrapOSError(d.state.file.Flush())
}

func (d *DiskDevice) Truncate(newSize uint64) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.truncateLocked(newSize)
}

// truncateLocked assumes d.mutex is already held.
func (d *DiskDevice) truncateLocked(newSize uint64) error {
	if limit := d.config.FileSizeLimitBytes(); limit != 0 && newSize > limit {
		return NewError(ErrLimitsReached)
	}
	if err := d.state.file.Truncate(int64(newSize)); err != nil {
		return wrapOSError(err)
	}
	d.state.fileSize = newSize
	return nil
}

func (d *DiskDevice) FileSize() (uint64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state.fileSize, nil
}

// Alloc reserves length bytes, either from the reserved tail
// (excess_at_end) or, once that is exhausted, by growing the file
// according to the amortized schedule in spec.md §4.3: 0x/100x/250x/
// 1000x of the requested length depending on the file's current size,
// so that frequent small allocations do not each force a truncate(2).
func (d *DiskDevice) Alloc(length uint64) (uint64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.state.excessAtEnd >= length {
		address := d.state.fileSize - d.state.excessAtEnd
		d.state.excessAtEnd -= length
		return address, nil
	}

	var excess uint64
	switch {
	case d.state.fileSize < length*100:
		excess = 0
	case d.state.fileSize < length*250:
		excess = length * 100
	case d.state.fileSize < length*1000:
		excess = length * 250
	default:
		excess = length * 1000
	}

	address := d.state.fileSize
	if err := d.truncateLocked(address + length + excess); err != nil {
		return 0, err
	}
	d.state.excessAtEnd = excess
	return address, nil
}

// ReadPage attaches a Borrowed view into the active mapping when
// address falls within it; otherwise it reads a fresh Owned buffer via
// positional I/O, decrypting in place when EnableEncryption is set.
func (d *DiskDevice) ReadPage(page *Page, address uint64) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	pageSize := d.config.PageSizeBytes()

	if d.state.mmap != nil && address+uint64(pageSize) <= d.state.mappedSize {
		page.SetAddress(address)
		page.AssignMappedBuffer(d.state.mmap[address : address+uint64(pageSize)])
		return nil
	}

	buf := make([]byte, pageSize)
	if err := d.state.file.Pread(int64(address), buf); err != nil {
		return wrapOSError(err)
	}
	if d.config.HasFlag(EnableEncryption) {
		if err := cryptBlockInPlace(d.config.EncryptionKey(), address, buf); err != nil {
			return err
		}
	}
	page.SetAddress(address)
	page.AssignOwnedBuffer(buf)
	return nil
}

// AllocPage reserves one page-sized region and installs a fresh Owned
// buffer; it never hands back mmapped memory (spec.md §4.3).
func (d *DiskDevice) AllocPage(page *Page) error {
	address, err := d.Alloc(uint64(d.config.PageSizeBytes()))
	if err != nil {
		return err
	}
	page.SetAddress(address)
	page.AssignOwnedBuffer(make([]byte, d.config.PageSizeBytes()))
	return nil
}

// FreePage releases page's buffer. No address is returned to a free
// list at this layer (spec.md §4.2).
func (d *DiskDevice) FreePage(page *Page) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	page.FreeBuffer()
	return nil
}

// Read performs raw positional I/O, transparently decrypting when
// EnableEncryption is set. Never consults the mapping.
func (d *DiskDevice) Read(offset uint64, buf []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.state.file.Pread(int64(offset), buf); err != nil {
		return wrapOSError(err)
	}
	if d.config.HasFlag(EnableEncryption) {
		return cryptBlockInPlace(d.config.EncryptionKey(), offset, buf)
	}
	return nil
}

// Write performs raw positional I/O, transparently encrypting when
// enabled. Because the mapping is never written through (it is always
// PRIVATE), a write never needs to touch d.state.mmap.
func (d *DiskDevice) Write(offset uint64, buf []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.config.HasFlag(EnableEncryption) {
		// Encryption disables direct sub-page I/O: only whole-page
		// writes are allowed (spec.md §4.5).
		pageSize := uint64(d.config.PageSizeBytes())
		if offset%pageSize != 0 || uint64(len(buf)) != pageSize {
			return NewError(ErrInvalid)
		}
		scratch := make([]byte, len(buf))
		copy(scratch, buf)
		if err := cryptBlockInPlace(d.config.EncryptionKey(), offset, scratch); err != nil {
			return err
		}
		return wrapOSError(d.state.file.Pwrite(int64(offset), scratch))
	}
	return wrapOSError(d.state.file.Pwrite(int64(offset), buf))
}

// IsMapped reports whether [offset, offset+length) lies entirely within
// the active mapping.
func (d *DiskDevice) IsMapped(offset uint64, length uint64) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return offset+length <= d.state.mappedSize
}

// ReclaimSpace drops any reserved-but-unallocated tail bytes.
func (d *DiskDevice) ReclaimSpace() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.state.excessAtEnd == 0 {
		return nil
	}
	if err := d.truncateLocked(d.state.fileSize - d.state.excessAtEnd); err != nil {
		return err
	}
	d.state.excessAtEnd = 0
	return nil
}

// wrapOSError normalizes an OS-layer error into the package's Error
// taxonomy, preserving osfile.ErrWouldBlock distinctly from a generic
// I/O failure. A missing-path error becomes ErrFileNotFound, which in
// practice only Open produces (spec.md §4.1); Create uses
// wrapCreateError instead, which maps it to the generic ErrIO.
func wrapOSError(err error) error {
	if err == nil {
		return nil
	}
	if err == osfile.ErrWouldBlock {
		return NewError(ErrWouldBlock)
	}
	if osfile.IsNotExist(err) {
		return WrapError(ErrFileNotFound, err)
	}
	return WrapError(ErrIO, err)
}

// wrapCreateError is wrapOSError's counterpart for Create: a missing
// parent directory or other ENOENT-shaped failure during create() is
// specified as ErrIO, not ErrFileNotFound (spec.md §4.1).
func wrapCreateError(err error) error {
	if err == nil {
		return nil
	}
	if err == osfile.ErrWouldBlock {
		return NewError(ErrWouldBlock)
	}
	return WrapError(ErrIO, err)
}
