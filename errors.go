package slab

import "errors"

// Error kinds surfaced by Arena. Every one is a sentinel, checked with
// errors.Is, never a formatted string match.
var (
	// ErrExhausted is returned by Allocate when the arena is size-limited
	// and has no free slot, or when its Provider refused a new chunk.
	ErrExhausted = errors.New("slab: arena exhausted")
	// ErrNullPointer is returned by Deallocate when called with a nil
	// pointer.
	ErrNullPointer = errors.New("slab: deallocate called with nil pointer")
	// ErrDoubleFree is returned by Deallocate when the slot is already
	// marked free.
	ErrDoubleFree = errors.New("slab: double free detected")
	// ErrRegistryFull is returned by NewArena when the per-type instance
	// registry has no free index left.
	ErrRegistryFull = errors.New("slab: instance registry is full")
)
