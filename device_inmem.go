package pager

// InMemoryDevice backs pages with heap allocations instead of a file.
// Every file-oriented operation (Open, FileSize, Read, ReadPage) is
// rejected with ErrNotImplemented, matching device_inmem.cc: an
// in-memory environment has no notion of an offset to seek to or a
// size to report. Addresses are synthetic, monotonically increasing
// tokens rather than real pointer values, since Go cannot hand a raw
// heap address to a caller as a stable uint64 (spec.md §4.2).
type InMemoryDevice struct {
	config *Config
	mutex  Spinlock

	isOpen        bool
	allocatedSize uint64
	nextAddress   uint64
	blocks        map[uint64][]byte
}

// NewInMemoryDevice returns an InMemoryDevice bound to config.
func NewInMemoryDevice(config *Config) *InMemoryDevice {
	return &InMemoryDevice{
		config:      config,
		nextAddress: 1, // 0 is reserved for the header page
		blocks:      make(map[uint64][]byte),
	}
}

func (d *InMemoryDevice) Config() *Config { return d.config }

// Create marks the device open. There is nothing to allocate up front.
func (d *InMemoryDevice) Create() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.isOpen = true
	d.config.Seal()
	return nil
}

// Open always fails: an in-memory environment cannot be reattached to.
func (d *InMemoryDevice) Open() error {
	return NewError(ErrNotImplemented)
}

// Close releases every outstanding block.
func (d *InMemoryDevice) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.isOpen = false
	d.blocks = make(map[uint64][]byte)
	d.allocatedSize = 0
	return nil
}

// Flush is a no-op: there is no backing store to sync.
func (d *InMemoryDevice) Flush() error { return nil }

// Truncate is a no-op: an in-memory device has no file length concept.
func (d *InMemoryDevice) Truncate(newSize uint64) error { return nil }

// FileSize is not meaningful for an in-memory device.
func (d *InMemoryDevice) FileSize() (uint64, error) {
	return 0, NewError(ErrNotImplemented)
}

// Alloc reserves size bytes from the heap, enforcing FileSizeLimitBytes
// as a ceiling on total live allocation (0 means unbounded).
func (d *InMemoryDevice) Alloc(length uint64) (uint64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.allocLocked(length)
}

func (d *InMemoryDevice) allocLocked(length uint64) (uint64, error) {
	if limit := d.config.FileSizeLimitBytes(); limit != 0 && d.allocatedSize+length > limit {
		return 0, NewError(ErrLimitsReached)
	}
	address := d.nextAddress
	d.nextAddress += length
	d.blocks[address] = make([]byte, length)
	d.allocatedSize += length
	return address, nil
}

// ReadPage is not meaningful for an in-memory device: a page already
// lives in its Owned buffer from the moment it was allocated.
func (d *InMemoryDevice) ReadPage(page *Page, address uint64) error {
	return NewError(ErrNotImplemented)
}

// AllocPage reserves one page-sized block and installs it as page's
// Owned buffer.
func (d *InMemoryDevice) AllocPage(page *Page) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	pageSize := uint64(d.config.PageSizeBytes())
	address, err := d.allocLocked(pageSize)
	if err != nil {
		return err
	}
	page.SetAddress(address)
	page.AssignOwnedBuffer(d.blocks[address])
	return nil
}

// FreePage releases page's block, reversing the accounting from
// AllocPage (device_inmem.cc::free_page).
func (d *InMemoryDevice) FreePage(page *Page) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	pageSize := uint64(d.config.PageSizeBytes())
	delete(d.blocks, page.Address())
	if d.allocatedSize >= pageSize {
		d.allocatedSize -= pageSize
	}
	page.FreeBuffer()
	return nil
}

// Read is not meaningful for an in-memory device.
func (d *InMemoryDevice) Read(offset uint64, buf []byte) error {
	return NewError(ErrNotImplemented)
}

// Write is a no-op: there is nowhere to write raw bytes to outside of
// an allocated block, and the B+tree/cache layer above always writes
// through a page's own buffer instead (device_inmem.cc::write).
func (d *InMemoryDevice) Write(offset uint64, buf []byte) error { return nil }

// IsMapped is always false: an in-memory device never has a mapping.
func (d *InMemoryDevice) IsMapped(offset uint64, length uint64) bool { return false }

// ReclaimSpace is a no-op: there is no reserved tail to drop.
func (d *InMemoryDevice) ReclaimSpace() error { return nil }

// Release returns a previously allocated block to the device, reversing
// Alloc's accounting (device_inmem.cc::release). Used by callers doing
// their own raw-allocation bookkeeping rather than going through a Page.
func (d *InMemoryDevice) Release(address uint64, size uint64) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.blocks, address)
	if d.allocatedSize >= size {
		d.allocatedSize -= size
	}
}
