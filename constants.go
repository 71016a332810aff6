package pager

// Flag is a bitmap of environment open-time options.
type Flag uint32

const (
	// ReadOnly opens the underlying file read-only and disables the
	// device's write path.
	ReadOnly Flag = 1 << iota

	// InMemory selects the InMemoryDevice variant, which ignores every
	// file-oriented flag set alongside it.
	InMemory

	// DisableMmap forces DiskDevice to never attempt a memory mapping,
	// serving every page through positional I/O instead.
	DisableMmap

	// EnableCRC32 makes page write-back recompute and store a CRC32 of
	// the payload; callers are expected to verify it on fetch.
	EnableCRC32

	// EnableEncryption makes the device transparently encrypt and
	// decrypt every page and raw read/write with the environment's AES
	// key, using the page or offset address as the counter seed.
	EnableEncryption
)

// PosixAdvice selects the access pattern hint passed to the OS for both
// the file descriptor and any active mapping.
type PosixAdvice int

const (
	// AdviceNormal applies no special access hint.
	AdviceNormal PosixAdvice = iota

	// AdviceRandom hints that access will be non-sequential, disabling
	// readahead.
	AdviceRandom
)

// Page size bounds and defaults, in bytes.
const (
	MinPageSize     = 512
	MaxPageSize     = 1 << 16 // 64 KiB
	DefaultPageSize = 16 * 1024

	// DefaultCacheSize is the default cache_size_bytes, consumed by a
	// higher cache layer and otherwise inert at this layer.
	DefaultCacheSize = 2 * 1024 * 1024

	// DefaultFileMode is the creation permission applied when none is
	// given explicitly.
	DefaultFileMode = 0644
)

// EncryptionKeySize is the width, in bytes, of the AES key used when
// EnableEncryption is set (128 bits).
const EncryptionKeySize = 16

// headerPageAddress is the reserved address of the environment header
// page; its interpretation belongs to higher layers.
const headerPageAddress uint64 = 0
