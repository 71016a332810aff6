package pager

import "testing"

func TestPageHeaderRoundTrip(t *testing.T) {
	p := NewPage(64)
	p.AssignOwnedBuffer(make([]byte, 64))
	p.SetAddress(128)

	p.SetType(PageBTreeRoot)
	p.SetLSN(42)

	if got := p.Type(); got != PageBTreeRoot {
		t.Errorf("Type() = %v, want PageBTreeRoot", got)
	}
	if got := p.LSN(); got != 42 {
		t.Errorf("LSN() = %d, want 42", got)
	}
	if len(p.Payload()) != 64-pageHeaderSize {
		t.Errorf("Payload() length = %d, want %d", len(p.Payload()), 64-pageHeaderSize)
	}
}

func TestPageWithoutHeaderPayload(t *testing.T) {
	p := NewPage(64)
	p.AssignOwnedBuffer(make([]byte, 64))
	p.SetWithoutHeader(true)

	if len(p.Payload()) != 64 {
		t.Errorf("Payload() length = %d, want 64 for headerless page", len(p.Payload()))
	}
	if got := p.Type(); got != PageUnknown {
		t.Errorf("Type() on headerless page = %v, want PageUnknown", got)
	}
}

func TestPageBufferKindTransitions(t *testing.T) {
	p := NewPage(64)
	if p.BufferKind() != BufferEmpty {
		t.Fatalf("new page BufferKind() = %v, want BufferEmpty", p.BufferKind())
	}

	p.AssignOwnedBuffer(make([]byte, 64))
	if p.BufferKind() != BufferOwned {
		t.Errorf("BufferKind() = %v, want BufferOwned", p.BufferKind())
	}

	mapped := make([]byte, 64)
	p.AssignMappedBuffer(mapped)
	if p.BufferKind() != BufferBorrowed {
		t.Errorf("BufferKind() = %v, want BufferBorrowed", p.BufferKind())
	}

	p.FreeBuffer()
	if p.HasBuffer() {
		t.Error("HasBuffer() true after FreeBuffer")
	}
}

func TestPageIntrusiveLists(t *testing.T) {
	a := NewPage(64)
	b := NewPage(64)

	a.SetNext(ListLRU, b)
	b.SetPrev(ListLRU, a)

	if a.Next(ListLRU) != b {
		t.Error("a.Next(ListLRU) != b")
	}
	if b.Prev(ListLRU) != a {
		t.Error("b.Prev(ListLRU) != a")
	}

	// Independent from the changeset list.
	if a.Next(ListChangeset) != nil {
		t.Error("a.Next(ListChangeset) should be nil")
	}

	a.UnlinkAll()
	if a.Next(ListLRU) != nil {
		t.Error("UnlinkAll did not clear ListLRU link")
	}
}

func TestSpinlockTryLock(t *testing.T) {
	var s Spinlock
	if !s.TryLock() {
		t.Fatal("TryLock on free spinlock should succeed")
	}
	if s.TryLock() {
		t.Fatal("TryLock on held spinlock should fail")
	}
	s.Unlock()
	if !s.TryLock() {
		t.Fatal("TryLock after Unlock should succeed")
	}
}
