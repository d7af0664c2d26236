package slab

import "testing"

func TestTaggedPointer(t *testing.T) {
	var v uint32 = 42
	p := NewTaggedPointer(&v)

	if p.Address() != &v {
		t.Fatalf("Address() = %p, want %p", p.Address(), &v)
	}
	if p.TestFlag(FlagInUse) {
		t.Fatalf("fresh TaggedPointer has FlagInUse set")
	}
	p.SetFlag(FlagInUse)
	if !p.TestFlag(FlagInUse) {
		t.Fatalf("SetFlag(FlagInUse) did not stick")
	}
	p.UnsetFlag(FlagInUse)
	if p.TestFlag(FlagInUse) {
		t.Fatalf("UnsetFlag(FlagInUse) did not clear")
	}

	p.SetCounter(7)
	if p.Counter() != 7 {
		t.Fatalf("Counter() = %d, want 7", p.Counter())
	}

	if !p.Equal(&v) {
		t.Fatalf("Equal(&v) = false, want true")
	}
	var other uint32
	if p.Equal(&other) {
		t.Fatalf("Equal(&other) = true, want false")
	}

	p.Reset(&other, FlagInUse, 3)
	if p.Address() != &other || !p.TestFlag(FlagInUse) || p.Counter() != 3 {
		t.Fatalf("Reset did not fully overwrite the tagged pointer")
	}
}
