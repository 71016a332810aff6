package pager

import "testing"

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig("test.db")

	if c.PageSizeBytes() != DefaultPageSize {
		t.Errorf("PageSizeBytes() = %d, want %d", c.PageSizeBytes(), DefaultPageSize)
	}
	if c.CacheSizeBytes() != DefaultCacheSize {
		t.Errorf("CacheSizeBytes() = %d, want %d", c.CacheSizeBytes(), DefaultCacheSize)
	}
	if c.FileMode() != DefaultFileMode {
		t.Errorf("FileMode() = %v, want %v", c.FileMode(), DefaultFileMode)
	}
	if c.Filename() != "test.db" {
		t.Errorf("Filename() = %q, want test.db", c.Filename())
	}
	if c.Sealed() {
		t.Error("new config should not be sealed")
	}
}

func TestConfigSealRejectsMutation(t *testing.T) {
	c := NewConfig("test.db")
	c.Seal()

	if err := c.SetPageSizeBytes(4096); Code(err) != ErrInvalid {
		t.Errorf("SetPageSizeBytes after Seal: got %v, want ErrInvalid", err)
	}
	if err := c.SetCacheSizeBytes(1 << 20); Code(err) != ErrInvalid {
		t.Errorf("SetCacheSizeBytes after Seal: got %v, want ErrInvalid", err)
	}
	if err := c.SetFilename("other.db"); Code(err) != ErrInvalid {
		t.Errorf("SetFilename after Seal: got %v, want ErrInvalid", err)
	}
}

func TestConfigSetPageSizeBytesValidation(t *testing.T) {
	cases := []struct {
		name string
		size uint32
		ok   bool
	}{
		{"too small", 64, false},
		{"not power of two", 5000, false},
		{"too large", MaxPageSize * 2, false},
		{"valid 4096", 4096, true},
		{"valid min", MinPageSize, true},
		{"valid max", MaxPageSize, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig("test.db")
			err := c.SetPageSizeBytes(tc.size)
			if tc.ok && err != nil {
				t.Errorf("SetPageSizeBytes(%d) = %v, want nil", tc.size, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("SetPageSizeBytes(%d) = nil, want error", tc.size)
			}
		})
	}
}

func TestConfigSetEncryptionKeyValidation(t *testing.T) {
	c := NewConfig("test.db")

	if err := c.SetEncryptionKey(make([]byte, 8)); err == nil {
		t.Error("SetEncryptionKey with wrong length should fail")
	}

	key := make([]byte, EncryptionKeySize)
	for i := range key {
		key[i] = byte(i)
	}
	if err := c.SetEncryptionKey(key); err != nil {
		t.Fatalf("SetEncryptionKey: %v", err)
	}
	if got := c.EncryptionKey(); got[0] != 0 || got[1] != 1 {
		t.Errorf("EncryptionKey() = %v, want to start with 0,1", got)
	}
}

func TestConfigHasFlag(t *testing.T) {
	c := NewConfig("test.db")
	if err := c.SetFlags(EnableCRC32 | ReadOnly); err != nil {
		t.Fatalf("SetFlags: %v", err)
	}
	if !c.HasFlag(EnableCRC32) {
		t.Error("HasFlag(EnableCRC32) = false, want true")
	}
	if !c.HasFlag(ReadOnly) {
		t.Error("HasFlag(ReadOnly) = false, want true")
	}
	if c.HasFlag(EnableEncryption) {
		t.Error("HasFlag(EnableEncryption) = true, want false")
	}
	if !c.HasFlag(EnableCRC32 | ReadOnly) {
		t.Error("HasFlag(EnableCRC32|ReadOnly) = false, want true")
	}
}
