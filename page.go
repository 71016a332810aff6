package pager

import (
	"encoding/binary"
	"sync"
)

// pageHeaderSize is the width of the persistent page header: a 32-bit
// type tag, a 32-bit CRC32, and a 64-bit LSN (spec.md §6, "Persistent
// file layout"). The struct is byte-packed with no alignment padding.
const pageHeaderSize = 16

// PageType tags the kind of content a page holds. The core only ever
// reads or writes this tag on the caller's behalf; it never interprets
// BTreeRoot/BTreeIndex/PageManager pages itself.
type PageType uint32

const (
	PageUnknown PageType = iota
	PageHeader
	PageBTreeRoot
	PageBTreeIndex
	PageManager
	PageBlob
)

// BufferKind tags the ownership of a Page's backing buffer.
type BufferKind int

const (
	// BufferEmpty means the page has no buffer attached.
	BufferEmpty BufferKind = iota

	// BufferOwned means the buffer is heap-allocated and must be
	// released when the page's buffer is freed.
	BufferOwned

	// BufferBorrowed means the buffer is a view into an active mapping
	// and must never be released directly; its lifetime is bounded by
	// the mapping that produced it.
	BufferBorrowed
)

// ListKind names one of the three intrusive doubly-linked lists a Page
// can belong to simultaneously. The Page only owns the link storage;
// the discipline (cache LRU order, changeset membership, hash-bucket
// chaining) belongs to whichever layer above the core manages them.
type ListKind int

const (
	ListLRU ListKind = iota
	ListChangeset
	ListHashBucket
	numListKinds
)

type pageLink struct {
	next *Page
	prev *Page
}

// Spinlock serializes short, I/O-bound critical sections. Go's runtime
// mutex already spins briefly before parking a goroutine under
// contention, so a hand-rolled busy loop would only reimplement that
// behavior worse; Spinlock is a thin, intention-revealing wrapper over
// sync.Mutex for exactly this reason (spec.md §9, "Spinlocks").
type Spinlock struct {
	mu sync.Mutex
}

// Lock acquires the spinlock, blocking until it is available.
func (s *Spinlock) Lock() { s.mu.Lock() }

// Unlock releases the spinlock.
func (s *Spinlock) Unlock() { s.mu.Unlock() }

// TryLock attempts to acquire the spinlock without blocking.
func (s *Spinlock) TryLock() bool { return s.mu.TryLock() }

// Page is a fixed-size unit of on-disk state addressed by its absolute
// byte offset in the backing store (spec.md §3, "Page").
type Page struct {
	address uint64
	size    uint32

	buffer     []byte
	bufferKind BufferKind

	isDirty         bool
	isWithoutHeader bool
	lsn             uint64

	mutex Spinlock
	links [numListKinds]pageLink
}

// NewPage returns an empty page of the given size with no buffer
// attached. Callers obtain a populated Page through Device.AllocPage or
// Device.ReadPage, not by constructing one directly and filling it in.
func NewPage(size uint32) *Page {
	return &Page{size: size}
}

// Address returns the page's absolute byte offset in the backing
// store. For InMemoryDevice this is a synthetic token assigned by the
// device, not the numeric value of a heap pointer.
func (p *Page) Address() uint64 { return p.address }

// SetAddress sets the page's address. Used by the device when
// installing a buffer.
func (p *Page) SetAddress(addr uint64) { p.address = addr }

// Size returns the page size in bytes.
func (p *Page) Size() uint32 { return p.size }

// IsHeaderPage reports whether this is the environment header page
// (address 0).
func (p *Page) IsHeaderPage() bool { return p.address == headerPageAddress }

// BufferKind reports the ownership tag of the page's current buffer.
func (p *Page) BufferKind() BufferKind { return p.bufferKind }

// HasBuffer reports whether a buffer is currently attached.
func (p *Page) HasBuffer() bool { return p.bufferKind != BufferEmpty }

// AssignOwnedBuffer installs buf as an Owned buffer: it was allocated
// on the heap and must be released when the page's buffer is freed.
func (p *Page) AssignOwnedBuffer(buf []byte) {
	p.FreeBuffer()
	p.buffer = buf
	p.bufferKind = BufferOwned
}

// AssignMappedBuffer installs buf as a Borrowed buffer: a view into an
// active mapping that must never be released by the page itself.
func (p *Page) AssignMappedBuffer(buf []byte) {
	p.FreeBuffer()
	p.buffer = buf
	p.bufferKind = BufferBorrowed
}

// FreeBuffer releases the page's buffer. For an Owned buffer this drops
// the Go slice reference (letting the garbage collector reclaim the
// backing array); for a Borrowed buffer it simply forgets the
// reference without touching the mapping. Always safe, and always
// leaves the page in the Empty state.
func (p *Page) FreeBuffer() {
	p.buffer = nil
	p.bufferKind = BufferEmpty
}

// RawPayload returns the full page buffer, header included. Empty if no
// buffer is attached.
func (p *Page) RawPayload() []byte { return p.buffer }

// Payload returns the page body past the persistent header. For a page
// marked IsWithoutHeader, the header does not exist on disk and Payload
// returns the full buffer instead.
func (p *Page) Payload() []byte {
	if p.isWithoutHeader || len(p.buffer) < pageHeaderSize {
		return p.buffer
	}
	return p.buffer[pageHeaderSize:]
}

// IsWithoutHeader reports whether this page suppresses header
// validation and CRC (used for blob overflow continuation pages).
func (p *Page) IsWithoutHeader() bool { return p.isWithoutHeader }

// SetWithoutHeader sets the flag suppressing header interpretation.
func (p *Page) SetWithoutHeader(v bool) { p.isWithoutHeader = v }

// Type returns the page's type tag. Returns PageUnknown if no buffer or
// the page is headerless.
func (p *Page) Type() PageType {
	if p.isWithoutHeader || len(p.buffer) < pageHeaderSize {
		return PageUnknown
	}
	return PageType(binary.LittleEndian.Uint32(p.buffer[0:4]))
}

// SetType sets the page's type tag. No-op on a headerless page.
func (p *Page) SetType(t PageType) {
	if p.isWithoutHeader || len(p.buffer) < pageHeaderSize {
		return
	}
	binary.LittleEndian.PutUint32(p.buffer[0:4], uint32(t))
}

// CRC32 returns the CRC32 stored in the header, or 0 on a headerless
// page.
func (p *Page) CRC32() uint32 {
	if p.isWithoutHeader || len(p.buffer) < pageHeaderSize {
		return 0
	}
	return binary.LittleEndian.Uint32(p.buffer[4:8])
}

func (p *Page) setCRC32(v uint32) {
	if p.isWithoutHeader || len(p.buffer) < pageHeaderSize {
		return
	}
	binary.LittleEndian.PutUint32(p.buffer[4:8], v)
}

// LSN returns the log sequence number stamped by the transaction layer.
// Opaque to the core: it is stored and returned, never interpreted.
func (p *Page) LSN() uint64 {
	if p.isWithoutHeader || len(p.buffer) < pageHeaderSize {
		return p.lsn
	}
	return binary.LittleEndian.Uint64(p.buffer[8:16])
}

// SetLSN sets the log sequence number.
func (p *Page) SetLSN(lsn uint64) {
	p.lsn = lsn
	if !p.isWithoutHeader && len(p.buffer) >= pageHeaderSize {
		binary.LittleEndian.PutUint64(p.buffer[8:16], lsn)
	}
}

// IsDirty reports whether the page has been modified since its last
// successful write-back.
func (p *Page) IsDirty() bool { return p.isDirty }

// SetDirty marks the page dirty or clean. Set by mutators; cleared only
// by a successful Flush.
func (p *Page) SetDirty(dirty bool) { p.isDirty = dirty }

// Mutex returns the page's spinlock, used by the cache/write-back layer
// to serialize access to the page's contents.
func (p *Page) Mutex() *Spinlock { return &p.mutex }

// Next returns the next page in the given intrusive list, or nil.
func (p *Page) Next(list ListKind) *Page { return p.links[list].next }

// Prev returns the previous page in the given intrusive list, or nil.
func (p *Page) Prev(list ListKind) *Page { return p.links[list].prev }

// SetNext sets the next pointer for the given intrusive list.
func (p *Page) SetNext(list ListKind, next *Page) { p.links[list].next = next }

// SetPrev sets the previous pointer for the given intrusive list.
func (p *Page) SetPrev(list ListKind, prev *Page) { p.links[list].prev = prev }

// UnlinkAll detaches the page from all three intrusive lists in O(1),
// without touching neighboring pages' own links — the cache is
// responsible for fixing up neighbors before calling this during
// eviction.
func (p *Page) UnlinkAll() {
	for i := range p.links {
		p.links[i] = pageLink{}
	}
}
