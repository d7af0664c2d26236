package slab

import "github.com/vela-ds/slab/internal/provider"

// Backend selects the synchronization discipline an Arena uses to guard its
// free list and bookkeeping counters.
type Backend int

const (
	// BackendLockFree uses a Treiber-stack CAS loop over the free list;
	// this is the default and the only backend rated for high-contention
	// MPMC use.
	BackendLockFree Backend = iota
	// BackendMutex guards the free list with a sync.Mutex.
	BackendMutex
	// BackendSpinlock guards the free list with a syncutil.Spinlock.
	BackendSpinlock
)

// ArenaOptions configures a new Arena[T]. The zero value is a ready-to-use,
// unbounded, lock-free, heap-backed configuration with the reference
// implementation's default chunk size.
type ArenaOptions[T any] struct {
	// ChunkSize is the number of slots per chunk. Zero selects
	// DefaultChunkSize.
	ChunkSize uint32
	// InitialSize is the number of slots reserved at construction; it is
	// rounded up to a whole number of chunks. Zero selects ChunkSize (one
	// chunk).
	InitialSize uint32
	// SizeLimit stops growth once total slots reach it. Growth is by whole
	// chunks, so the total can exceed SizeLimit by up to ChunkSize-1 when
	// SizeLimit is not a multiple of ChunkSize. Zero means unbounded.
	SizeLimit uint32
	// PrefetchThreshold, when nonzero, starts a background worker that
	// extends the arena by one chunk whenever free slots fall to or below
	// this value. Zero (the default) means growth only happens
	// synchronously, inline in Allocate.
	PrefetchThreshold uint32
	// Backend selects the free-list synchronization discipline. Zero value
	// is BackendLockFree.
	Backend Backend
	// Provider supplies the raw storage for chunks. Nil selects
	// provider.Heap[slot[T]]{}.
	Provider provider.Provider[slot[T]]
}

// DefaultChunkSize matches the reference implementation's default.
const DefaultChunkSize = 1024
