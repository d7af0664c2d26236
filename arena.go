package slab

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/vela-ds/slab/internal/provider"
	"github.com/vela-ds/slab/internal/registry"
	"github.com/vela-ds/slab/syncutil"
)

// Arena is a chunked slab allocator for a single, statically-known element
// type T. Allocate and Deallocate are O(1) and safe for concurrent use from
// any number of goroutines; Clear is not and requires external quiescence.
type Arena[T any] struct {
	opts     ArenaOptions[T]
	provider provider.Provider[slot[T]]
	registry *registry.Registry[Arena[T]]
	index    uint32

	mu       sync.Mutex // guards chunks during growth; never held across Allocate/Deallocate's fast path
	chunks   []*chunk[T]
	freeHead atomic.Pointer[slot[T]]
	locker   syncutil.Locker // non-nil for BackendMutex/BackendSpinlock

	length    atomic.Uint64
	maxLength atomic.Uint64
	capacity  atomic.Uint64

	prefetch *prefetchWorker[T]
}

// NewArena creates an Arena with at least opts.InitialSize slots already
// reserved. It returns ErrExhausted if the provider refuses the initial
// chunk(s) and ErrRegistryFull if the process-wide registry for T has no
// free index.
func NewArena[T any](opts ArenaOptions[T]) (*Arena[T], error) {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.InitialSize < opts.ChunkSize {
		opts.InitialSize = opts.ChunkSize
	}
	if opts.Provider == nil {
		opts.Provider = provider.Heap[slot[T]]{}
	}

	a := &Arena[T]{
		opts:     opts,
		provider: opts.Provider,
		registry: registry.For[Arena[T]](),
	}
	switch opts.Backend {
	case BackendMutex:
		a.locker = syncutil.NewMutexLocker()
	case BackendSpinlock:
		a.locker = syncutil.NewSpinlockLocker()
	default:
		a.locker = nil
	}

	idx, err := a.registry.Add(a)
	if err != nil {
		return nil, ErrRegistryFull
	}
	a.index = idx

	for a.maxLength.Load() < uint64(opts.InitialSize) {
		if err := a.addChunk(); err != nil {
			a.registry.Reset(a.index)
			return nil, ErrExhausted
		}
	}

	if opts.PrefetchThreshold > 0 {
		a.prefetch = newPrefetchWorker(a, opts.PrefetchThreshold)
	}

	return a, nil
}

// RegistryIndex returns the index this arena occupies in the process-wide
// registry for T.
func (a *Arena[T]) RegistryIndex() uint32 { return a.index }

// Length returns the number of slots currently IN_USE.
func (a *Arena[T]) Length() uint32 { return uint32(a.length.Load()) }

// MaxLength returns the total number of slots across all chunks.
func (a *Arena[T]) MaxLength() uint32 { return uint32(a.maxLength.Load()) }

// Capacity returns the total bytes reserved across all chunks.
func (a *Arena[T]) Capacity() uint64 { return a.capacity.Load() }

// MaxSize returns the per-arena slot-count limit: opts.SizeLimit if set,
// else the largest count representable without overflowing a uint32. Growth
// stops once MaxLength reaches SizeLimit; because the arena grows by whole
// chunks, MaxLength can exceed SizeLimit by up to ChunkSize-1.
func (a *Arena[T]) MaxSize() uint32 {
	if a.opts.SizeLimit > 0 {
		return a.opts.SizeLimit
	}
	return ^uint32(0)
}

func (a *Arena[T]) freeSlots() uint64 {
	return a.maxLength.Load() - a.length.Load()
}

// Allocate acquires a free slot, marks it IN_USE, and returns a pointer to
// its zero-valued payload. It returns ErrExhausted if the arena is
// size-limited and full, or if growth was needed and the Provider refused a
// new chunk.
//
// The slot is marked IN_USE before the caller gets the pointer back, so if
// the caller's own initialization of *T can fail, it must explicitly call
// Deallocate to release the reservation — Go has no constructor to run
// automatically, so there is no "partially constructed slot" to roll back,
// only a reservation the caller chose not to keep.
func (a *Arena[T]) Allocate() (*T, error) {
	s := a.pop()
	if s == nil {
		if !a.canGrow() {
			return nil, ErrExhausted
		}
		if err := a.addChunk(); err != nil {
			return nil, ErrExhausted
		}
		s = a.pop()
		if s == nil {
			return nil, ErrExhausted
		}
	}
	s.markInUse()
	a.length.Add(1)
	if a.prefetch != nil && a.freeSlots() <= uint64(a.opts.PrefetchThreshold) {
		a.prefetch.trigger()
	}
	return &s.payload, nil
}

// Deallocate runs no destructor (Go has none to run), pushes the slot back
// onto its owning arena's free list, and marks it FREE. It returns
// ErrNullPointer for a nil p and ErrDoubleFree if the slot is already free.
func (a *Arena[T]) Deallocate(p *T) error {
	if p == nil {
		return ErrNullPointer
	}
	s := slotFromPayload(p)
	owner, ok := a.registry.Lookup(s.registryIndex())
	if !ok {
		owner = a
	}
	return owner.deallocateSlot(s)
}

func (a *Arena[T]) deallocateSlot(s *slot[T]) error {
	if !s.inUse() {
		return ErrDoubleFree
	}
	s.markFree()
	a.push(s)
	a.length.Add(^uint64(0)) // -1
	return nil
}

// IsValid reports whether p falls inside some chunk of this arena. This is
// an O(chunk-count) debugging aid, not a guard used on any hot path.
func (a *Arena[T]) IsValid(p *T) bool {
	if p == nil {
		return false
	}
	s := slotFromPayload(p)
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.chunks {
		if c.contains(s) {
			return true
		}
	}
	return false
}

// Clear runs no destructor (none to run in Go), releases every chunk back
// to the Provider, and resets all counters to zero. Clear is not
// thread-safe: the caller must ensure no other goroutine is using the arena
// concurrently. Clear followed by Clear is a no-op.
func (a *Arena[T]) Clear() {
	if a.prefetch != nil {
		a.prefetch.stop()
		a.prefetch = nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.chunks {
		c.release()
	}
	a.chunks = nil
	a.freeHead.Store(nil)
	a.length.Store(0)
	a.maxLength.Store(0)
	a.capacity.Store(0)
	a.registry.Reset(a.index)
}

func (a *Arena[T]) canGrow() bool {
	return a.opts.SizeLimit == 0 || uint32(a.maxLength.Load()) < a.opts.SizeLimit
}

// addChunk obtains a new chunk from the provider, links its slots into a
// local free list, and splices that list onto the arena's free head.
func (a *Arena[T]) addChunk() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := int(a.opts.ChunkSize)
	c, err := newChunk[T](a.provider, n)
	if err != nil {
		return err
	}
	for i, s := range c.pointers {
		s.setRegistryIndex(a.index)
		if i+1 < len(c.pointers) {
			s.next.Store(c.pointers[i+1])
		} else {
			s.next.Store(nil)
		}
	}
	a.chunks = append(a.chunks, c)
	a.maxLength.Add(uint64(n))
	var z slot[T]
	a.capacity.Add(uint64(n) * uint64(unsafe.Sizeof(z)))

	if n > 0 {
		head, tail := c.pointers[0], c.pointers[n-1]
		a.spliceFreeList(head, tail)
	}
	return nil
}

// spliceFreeList links [head..tail] (already chained through next) onto the
// front of the arena's free list.
func (a *Arena[T]) spliceFreeList(head, tail *slot[T]) {
	if a.locker != nil {
		a.locker.Lock()
		defer a.locker.Unlock()
		tail.next.Store(a.freeHead.Load())
		a.freeHead.Store(head)
		return
	}
	for {
		cur := a.freeHead.Load()
		tail.next.Store(cur)
		if a.freeHead.CompareAndSwap(cur, head) {
			return
		}
	}
}

// push returns s to the free list (Treiber-stack push, or lock-guarded
// push for the Mutex/Spinlock backends).
func (a *Arena[T]) push(s *slot[T]) {
	if a.locker != nil {
		a.locker.Lock()
		defer a.locker.Unlock()
		s.next.Store(a.freeHead.Load())
		a.freeHead.Store(s)
		return
	}
	for {
		h := a.freeHead.Load()
		s.next.Store(h)
		if a.freeHead.CompareAndSwap(h, s) {
			return
		}
	}
}

// pop removes and returns the slot at the head of the free list, or nil if
// the free list is empty.
//
// The Treiber-stack CAS loop below relies on the same single-owner
// discipline spec'd for the free list: a slot can only be re-pushed by the
// goroutine that currently exclusively owns it (the one that popped it, or
// whoever Allocate handed it to), never by a third party racing this pop.
// That rules out the classic ABA sequence where a third party frees a slot
// this goroutine has not yet re-pushed, which is why the counter field can
// be spent on the registry index instead of a generation tag.
func (a *Arena[T]) pop() *slot[T] {
	if a.locker != nil {
		a.locker.Lock()
		defer a.locker.Unlock()
		h := a.freeHead.Load()
		if h == nil {
			return nil
		}
		a.freeHead.Store(h.next.Load())
		h.next.Store(nil)
		return h
	}
	for {
		h := a.freeHead.Load()
		if h == nil {
			return nil
		}
		next := h.next.Load()
		if a.freeHead.CompareAndSwap(h, next) {
			h.next.Store(nil)
			return h
		}
	}
}
