package osfile

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestCreateOpenPreadPwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	f, err := Create(path, 0644)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := []byte("the quick brown fox")
	if err := f.Pwrite(0, want); err != nil {
		t.Fatalf("Pwrite: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f2, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f2.Close()

	got := make([]byte, len(want))
	if err := f2.Pread(0, got); err != nil {
		t.Fatalf("Pread: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Pread() = %q, want %q", got, want)
	}
}

func TestCreateLocksExclusively(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	f, err := Create(path, 0644)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	defer f.Close()

	if _, err := Open(path, false); err != ErrWouldBlock {
		t.Errorf("second Open while locked: got %v, want ErrWouldBlock", err)
	}
}

func TestFileSizeAndTruncate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	f, err := Create(path, 0644)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	if err := f.Truncate(4096); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	size, err := f.FileSize()
	if err != nil {
		t.Fatalf("FileSize: %v", err)
	}
	if size != 4096 {
		t.Errorf("FileSize() = %d, want 4096", size)
	}
}

func TestMmapRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	f, err := Create(path, 0644)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	granularity := Granularity()
	if err := f.Truncate(int64(granularity)); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	want := bytes.Repeat([]byte{0x5A}, 16)
	if err := f.Pwrite(0, want); err != nil {
		t.Fatalf("Pwrite: %v", err)
	}

	mapped, err := f.Mmap(0, granularity, true)
	if err != nil {
		t.Fatalf("Mmap: %v", err)
	}
	defer f.Munmap(mapped)

	if !bytes.Equal(mapped[:16], want) {
		t.Errorf("mapped bytes = %x, want %x", mapped[:16], want)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	f, err := Create(path, 0644)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
