package pager

import (
	"os"
	"sync"
)

// Config is the passive, value-typed record of every tunable the Device
// and Page layers need. It is mutable only until the environment's
// device has been opened, at which point Seal makes every further Set*
// call fail with ErrInvalid — mirroring the "config.Set* before Open"
// convention in env.go's SetPageSize/SetMaxDBs/SetGeometry.
type Config struct {
	mu     sync.Mutex
	sealed bool

	flags    Flag
	fileMode os.FileMode

	pageSizeBytes      uint32
	cacheSizeBytes     uint64
	fileSizeLimitBytes uint64

	filename string

	encryptionKey [EncryptionKeySize]byte

	posixAdvice PosixAdvice

	// journalCompressor is an opaque selector for the journal/WAL
	// compression algorithm. The journal itself is out of scope for this
	// core; the field is carried so a config value round-trips through
	// whatever opens the environment next.
	journalCompressor int
}

// NewConfig returns a Config with every default from spec.md §3 applied:
// 16 KiB pages, a 2 MiB cache size budget, unbounded file size, mode
// 0644, and no flags set.
func NewConfig(filename string) *Config {
	return &Config{
		fileMode:       DefaultFileMode,
		pageSizeBytes:  DefaultPageSize,
		cacheSizeBytes: DefaultCacheSize,
		filename:       filename,
	}
}

func (c *Config) checkMutable() error {
	if c.sealed {
		return NewError(ErrInvalid)
	}
	return nil
}

// Seal marks the configuration immutable. Called once by Device.Create
// or Device.Open; idempotent.
func (c *Config) Seal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
}

// Sealed reports whether the configuration has been sealed.
func (c *Config) Sealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sealed
}

// Flags returns the configured flag bitmap.
func (c *Config) Flags() Flag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

// SetFlags replaces the flag bitmap. IN_MEMORY and file-oriented flags
// (READ_ONLY, DISABLE_MMAP) may coexist in the bitmap; InMemoryDevice
// simply ignores the ones it does not use.
func (c *Config) SetFlags(flags Flag) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.flags = flags
	return nil
}

// HasFlag reports whether every bit in want is set.
func (c *Config) HasFlag(want Flag) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags&want == want
}

// FileMode returns the creation permission bits.
func (c *Config) FileMode() os.FileMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileMode
}

// SetFileMode sets the creation permission bits (default 0644).
func (c *Config) SetFileMode(mode os.FileMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.fileMode = mode
	return nil
}

// PageSizeBytes returns the configured page size.
func (c *Config) PageSizeBytes() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSizeBytes
}

// SetPageSizeBytes sets the page size. Must be a power of two between
// MinPageSize and MaxPageSize, and at least large enough to hold the
// persistent page header.
func (c *Config) SetPageSizeBytes(size uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	if size < MinPageSize || size > MaxPageSize {
		return NewError(ErrInvalid)
	}
	if size&(size-1) != 0 {
		return NewError(ErrInvalid)
	}
	if size < pageHeaderSize {
		return NewError(ErrInvalid)
	}
	c.pageSizeBytes = size
	return nil
}

// CacheSizeBytes returns the configured cache size. The device and page
// layers never consult this value themselves; it exists to be handed to
// a cache layer above them.
func (c *Config) CacheSizeBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheSizeBytes
}

// SetCacheSizeBytes sets the cache size budget (default 2 MiB).
func (c *Config) SetCacheSizeBytes(size uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.cacheSizeBytes = size
	return nil
}

// FileSizeLimitBytes returns the hard ceiling on file size (or, for
// InMemoryDevice, total live allocation). Zero means unbounded.
func (c *Config) FileSizeLimitBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileSizeLimitBytes
}

// SetFileSizeLimitBytes sets the hard ceiling (default 0, unbounded).
func (c *Config) SetFileSizeLimitBytes(limit uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.fileSizeLimitBytes = limit
	return nil
}

// Filename returns the backing file path.
func (c *Config) Filename() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filename
}

// SetFilename sets the backing file path.
func (c *Config) SetFilename(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.filename = name
	return nil
}

// EncryptionKey returns the 128-bit AES key used when EnableEncryption
// is set.
func (c *Config) EncryptionKey() [EncryptionKeySize]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.encryptionKey
}

// SetEncryptionKey sets the 128-bit AES key. key must be exactly
// EncryptionKeySize bytes.
func (c *Config) SetEncryptionKey(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	if len(key) != EncryptionKeySize {
		return NewError(ErrInvalid)
	}
	copy(c.encryptionKey[:], key)
	return nil
}

// PosixAdvice returns the configured access-pattern hint.
func (c *Config) PosixAdvice() PosixAdvice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posixAdvice
}

// SetPosixAdvice sets the access-pattern hint (default AdviceNormal).
func (c *Config) SetPosixAdvice(advice PosixAdvice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.posixAdvice = advice
	return nil
}

// JournalCompressor returns the opaque journal compression selector.
func (c *Config) JournalCompressor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.journalCompressor
}

// SetJournalCompressor sets the opaque journal compression selector.
// The core does not interpret this value; it is carried for the
// journal/WAL layer, which is out of scope here.
func (c *Config) SetJournalCompressor(selector int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.journalCompressor = selector
	return nil
}
