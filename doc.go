// Package slab implements a chunked slab allocator for a single,
// statically-known element type, with an O(1) intrusive free list.
//
// # Overview
//
// A slab.Arena[T] hands out *T values backed by fixed-size chunks obtained
// from a provider.Provider. Freed slots are pushed onto a per-arena free
// list and reused by the next Allocate, so long-running services that
// churn through many same-shaped objects avoid both GC pressure and heap
// fragmentation.
//
//	a, err := slab.NewArena[Job](slab.ArenaOptions[Job]{ChunkSize: 256})
//	if err != nil {
//	    // registry full or provider refused the initial chunk
//	}
//	defer a.Clear()
//
//	j, err := a.Allocate()
//	if err != nil {
//	    // arena exhausted or size-limited
//	}
//	err = a.Deallocate(j)
//
// # Thread safety
//
// Arena is safe for concurrent Allocate/Deallocate from any number of
// goroutines; Clear is not and requires the caller to first quiesce every
// other user of the arena. UnsafeArena wraps an Arena and forwards to its
// unsynchronized fast path for single-owner callers that do not need the
// lock-free free-list CAS loop.
//
// # Building blocks for higher-level structures
//
// slab.Arena is the foundation reused by the sibling queue, stack,
// multiqueue, and mailbox packages: each of those allocates its nodes from
// a dedicated Arena rather than the general Go heap.
package slab
