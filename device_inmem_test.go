package pager

import "testing"

func TestInMemoryDeviceAllocPageAndFreePage(t *testing.T) {
	c := NewConfig("")
	if err := c.SetFlags(InMemory); err != nil {
		t.Fatalf("SetFlags: %v", err)
	}
	d := NewInMemoryDevice(c)
	if err := d.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer d.Close()

	p := NewPage(c.PageSizeBytes())
	if err := d.AllocPage(p); err != nil {
		t.Fatalf("AllocPage: %v", err)
	}
	if p.BufferKind() != BufferOwned {
		t.Errorf("BufferKind() = %v, want BufferOwned", p.BufferKind())
	}
	if p.Address() == 0 {
		t.Error("AllocPage should not hand back address 0 (reserved for header page)")
	}

	if err := d.FreePage(p); err != nil {
		t.Fatalf("FreePage: %v", err)
	}
	if p.HasBuffer() {
		t.Error("page still has a buffer after FreePage")
	}
}

func TestInMemoryDeviceEnforcesLimit(t *testing.T) {
	c := NewConfig("")
	c.SetFileSizeLimitBytes(100)
	d := NewInMemoryDevice(c)
	if err := d.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer d.Close()

	if _, err := d.Alloc(50); err != nil {
		t.Fatalf("first Alloc: %v", err)
	}
	if _, err := d.Alloc(60); Code(err) != ErrLimitsReached {
		t.Errorf("Alloc past limit: got %v, want ErrLimitsReached", err)
	}
}

func TestInMemoryDeviceRejectsFileOrientedOps(t *testing.T) {
	c := NewConfig("")
	d := NewInMemoryDevice(c)
	if err := d.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer d.Close()

	if Code(d.Open()) != ErrNotImplemented {
		t.Error("Open() should be ErrNotImplemented")
	}
	if _, err := d.FileSize(); Code(err) != ErrNotImplemented {
		t.Error("FileSize() should be ErrNotImplemented")
	}
	if err := d.Read(0, make([]byte, 8)); Code(err) != ErrNotImplemented {
		t.Error("Read() should be ErrNotImplemented")
	}
	p := NewPage(c.PageSizeBytes())
	if Code(d.ReadPage(p, 0)) != ErrNotImplemented {
		t.Error("ReadPage() should be ErrNotImplemented")
	}
	if d.IsMapped(0, 100) {
		t.Error("IsMapped() should always be false for InMemoryDevice")
	}
}

func TestInMemoryDeviceRelease(t *testing.T) {
	c := NewConfig("")
	d := NewInMemoryDevice(c)
	if err := d.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer d.Close()

	addr, err := d.Alloc(128)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	d.Release(addr, 128)
	if d.allocatedSize != 0 {
		t.Errorf("allocatedSize after Release = %d, want 0", d.allocatedSize)
	}
}
