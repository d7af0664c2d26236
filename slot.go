package slab

import (
	"sync/atomic"
	"unsafe"
)

// slot is one element-sized cell inside a chunk. It doubles as a free-list
// node: next is a free-list link while the slot is FREE, and is left
// nil while the slot is IN_USE (queue and stack keep their own forward
// links inside T's node wrapper, not here — this next only ever threads
// the arena's own free list).
//
// meta packs the IN_USE flag and the owning arena's registry index. The
// registry index half of meta is written exactly once, during chunk
// initialization, and is safe to read from any goroutine thereafter without
// further synchronization because it is published to other goroutines only
// through the same atomic operations (chunk splice, free-list push) that
// make the rest of the slot visible. The IN_USE bit is mutated only by
// whichever goroutine currently holds the slot exclusively (the allocator
// caller between Allocate and Deallocate); a slot is handed off between
// goroutines exclusively through the free-list CAS, which is what makes
// that mutation race-free despite not itself being atomic.
type slot[T any] struct {
	next    atomic.Pointer[slot[T]]
	meta    uint32
	payload T
}

func (s *slot[T]) inUse() bool { return s.meta&FlagInUse != 0 }

func (s *slot[T]) registryIndex() uint32 { return s.meta >> 1 }

func (s *slot[T]) setRegistryIndex(idx uint32) {
	s.meta = (s.meta & FlagInUse) | (idx << 1)
}

func (s *slot[T]) markInUse() { s.meta |= FlagInUse }

func (s *slot[T]) markFree() { s.meta &^= FlagInUse }

// payloadOffset is the byte offset of the payload field within slot[T],
// used to recover a *slot[T] from the payload pointer handed to callers by
// Allocate, the same way the reference recovers its memory_slot header by
// subtracting a fixed header size from the user data pointer.
func payloadOffset[T any]() uintptr {
	var z slot[T]
	return uintptr(unsafe.Pointer(&z.payload)) - uintptr(unsafe.Pointer(&z))
}

// slotFromPayload recovers the owning slot from a pointer previously
// returned to a caller as the payload address.
func slotFromPayload[T any](p *T) *slot[T] {
	if p == nil {
		return nil
	}
	return (*slot[T])(unsafe.Pointer(uintptr(unsafe.Pointer(p)) - payloadOffset[T]()))
}
