package slab

import (
	"errors"
	"testing"
)

func TestUnsafeArenaRoundTrip(t *testing.T) {
	a, err := NewArena[uint32](ArenaOptions[uint32]{ChunkSize: 4, InitialSize: 4})
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	defer a.Clear()
	u := NewUnsafeArena(a)

	p, err := u.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	*p = 99
	if u.Length() != 1 {
		t.Fatalf("Length() = %d, want 1", u.Length())
	}
	if err := u.Deallocate(p); err != nil {
		t.Fatalf("Deallocate: %v", err)
	}
	if u.Length() != 0 {
		t.Fatalf("Length() = %d, want 0", u.Length())
	}
	if err := u.Deallocate(p); !errors.Is(err, ErrDoubleFree) {
		t.Fatalf("2nd Deallocate: %v, want ErrDoubleFree", err)
	}
	if err := u.Deallocate(nil); !errors.Is(err, ErrNullPointer) {
		t.Fatalf("Deallocate(nil): %v, want ErrNullPointer", err)
	}
}
