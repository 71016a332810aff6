package pager

import (
	"hash/crc32"
	"sync/atomic"
)

// Device is the polymorphic storage target consumed by the cache/B+tree
// layers above this core (spec.md §4.2). DiskDevice backs pages with a
// file and optionally a memory map; InMemoryDevice backs pages with
// heap allocations and rejects every file-oriented operation.
//
// All Device operations are serialized by the implementation's own
// spinlock; the interface is safe to share across goroutines.
type Device interface {
	// Create initializes a fresh backing store.
	Create() error

	// Open attaches to an existing backing store.
	Open() error

	// Close releases the mapping (if any) and the backing store.
	Close() error

	// Flush durably flushes the underlying store.
	Flush() error

	// Truncate sets the absolute backing-store length. Fails with
	// ErrLimitsReached if newSize exceeds the configured file size
	// limit.
	Truncate(newSize uint64) error

	// FileSize returns the cached backing-store size.
	FileSize() (uint64, error)

	// Alloc reserves len bytes and returns their address. The caller
	// owns the address exclusively until it is returned via FreePage.
	Alloc(length uint64) (uint64, error)

	// ReadPage attaches a buffer to page containing the content at
	// address: a Borrowed view into the mapping when address falls
	// within it, otherwise a freshly read Owned heap buffer.
	ReadPage(page *Page, address uint64) error

	// AllocPage reserves one page-sized region and installs a freshly
	// allocated Owned buffer on page.
	AllocPage(page *Page) error

	// FreePage releases page's buffer unconditionally. No address is
	// returned to a free list at this layer.
	FreePage(page *Page) error

	// Read performs raw positional I/O, transparently decrypting when
	// encryption is enabled.
	Read(offset uint64, buf []byte) error

	// Write performs raw positional I/O, transparently encrypting when
	// enabled. A sub-page write while encryption is enabled must start
	// on a page boundary and cover a whole page; violating this is a
	// programming error (spec.md §4.5).
	Write(offset uint64, buf []byte) error

	// IsMapped reports whether the entire range [offset, offset+length)
	// lies within the active mapping.
	IsMapped(offset uint64, length uint64) bool

	// ReclaimSpace drops any trailing reserved-but-unallocated bytes by
	// truncating the backing store to its effective used size.
	ReclaimSpace() error

	// Config returns the environment configuration backing this device.
	Config() *Config
}

// flushedPageCount is a process-wide monotonic counter of page
// write-backs, incremented under the flushing page's own lock. Reads
// may observe any monotonically increasing value; it exists purely as
// an observability hook (spec.md §9, "Process-wide flushed counter").
var flushedPageCount uint64

// FlushedPageCount returns the number of page write-backs observed by
// this process so far.
func FlushedPageCount() uint64 {
	return atomic.LoadUint64(&flushedPageCount)
}

// Flush writes the page back to dev if it is dirty, recomputing and
// storing its CRC32 first when the device's configuration has
// EnableCRC32 set and the page carries a header. No-op if the page is
// clean. Invoked by the cache/write-back layer holding the page's
// mutex, not by the device directly (spec.md §4.4).
func (p *Page) Flush(dev Device) error {
	if !p.isDirty {
		return nil
	}

	if dev.Config().HasFlag(EnableCRC32) && !p.isWithoutHeader && len(p.buffer) >= pageHeaderSize {
		p.setCRC32(p.seededCRC32())
	}

	if err := dev.Write(p.address, p.buffer); err != nil {
		return err
	}

	p.isDirty = false
	atomic.AddUint64(&flushedPageCount, 1)
	return nil
}

// seededCRC32 hashes the payload past the full header (so the CRC field
// itself, along with the rest of the header, is excluded) using the
// page's address as the seed, so a page copied verbatim to a different
// address fails verification instead of replaying (spec.md §9, "CRC
// scope").
func (p *Page) seededCRC32() uint32 {
	return crc32.Update(uint32(p.address), crc32.IEEETable, p.buffer[pageHeaderSize:])
}

// VerifyCRC32 recomputes the CRC32 over the page's current payload and
// reports whether it matches the value stored in the header. Callers
// above the device (the B+tree layer) call this after a fetch when
// ENABLE_CRC32 is set; the core never verifies on its own.
func (p *Page) VerifyCRC32() bool {
	if p.isWithoutHeader || len(p.buffer) < pageHeaderSize {
		return true
	}
	return p.seededCRC32() == p.CRC32()
}
