// Package queue implements a singly-linked FIFO queue whose nodes are
// allocated from a dedicated slab.Arena, mirroring the arena package's own
// backend-selection pattern.
package queue

import (
	"errors"
	"sync/atomic"

	"github.com/vela-ds/slab"
	"github.com/vela-ds/slab/syncutil"
)

// Backend selects the synchronization discipline a Queue uses for push/pop.
type Backend int

const (
	// BackendLockFree is a Michael-Scott-style queue without a dummy node;
	// the default, and the only backend rated for high-contention MPMC use.
	BackendLockFree Backend = iota
	// BackendMutex serializes push/pop under a sync.Mutex.
	BackendMutex
	// BackendSpinlock serializes push/pop under a syncutil.Spinlock.
	BackendSpinlock
	// BackendRaw omits all synchronization; single-thread use only.
	BackendRaw
)

// ErrNotImplemented is returned by Lock/Unlock on backends that don't carry
// a lock of their own.
var ErrNotImplemented = errors.New("queue: operation not implemented for this backend")

// ErrEmpty is returned by Pop when the queue has no nodes.
var ErrEmpty = errors.New("queue: empty")

// Options configures a new Queue.
type Options[T any] struct {
	Backend Backend
	// Arena, when non-nil, is used as the node arena instead of one created
	// internally with default slab.ArenaOptions.
	Arena *slab.Arena[slab.Node[T]]
}

// Queue is a FIFO queue whose node storage comes from a slab.Arena.
type Queue[T any] struct {
	backend Backend
	arena   *slab.Arena[slab.Node[T]]
	locker  syncutil.Locker // non-nil for Mutex/Spinlock

	head atomic.Pointer[slab.Node[T]]
	tail atomic.Pointer[slab.Node[T]]
}

// New constructs a Queue with the given backend. A dedicated node arena is
// created internally unless opts.Arena is supplied.
func New[T any](opts Options[T]) (*Queue[T], error) {
	q := &Queue[T]{backend: opts.Backend}

	switch opts.Backend {
	case BackendMutex:
		q.locker = syncutil.NewMutexLocker()
	case BackendSpinlock:
		q.locker = syncutil.NewSpinlockLocker()
	}

	if opts.Arena != nil {
		q.arena = opts.Arena
	} else {
		a, err := slab.NewArena[slab.Node[T]](slab.ArenaOptions[slab.Node[T]]{})
		if err != nil {
			return nil, err
		}
		q.arena = a
	}
	return q, nil
}

// Push allocates a node for value from the queue's arena and links it at
// the tail. It returns the arena's error unchanged (slab.ErrExhausted) if
// the arena refuses to grow.
func (q *Queue[T]) Push(value T) error {
	n, err := q.arena.Allocate()
	if err != nil {
		return err
	}
	n.Value = value
	n.SetNext(nil)

	switch q.backend {
	case BackendLockFree:
		q.pushLockFree(n)
	default:
		q.pushSerialized(n)
	}
	return nil
}

func (q *Queue[T]) pushSerialized(n *slab.Node[T]) {
	if q.locker != nil {
		q.locker.Lock()
		defer q.locker.Unlock()
	}
	tail := q.tail.Load()
	if tail == nil {
		q.head.Store(n)
		q.tail.Store(n)
		return
	}
	tail.SetNext(n)
	q.tail.Store(n)
}

// pushLockFree implements the Michael-Scott push protocol without a dummy
// node, with the transient (head=null, tail!=null) state from the very
// first push resolved by the losing head-CAS path in Pop.
func (q *Queue[T]) pushLockFree(n *slab.Node[T]) {
	for {
		tail := q.tail.Load()
		if tail == nil {
			if q.tail.CompareAndSwap(nil, n) {
				q.head.CompareAndSwap(nil, n)
				return
			}
			continue
		}
		next := tail.Next()
		if next != nil {
			// Another pusher linked but hasn't swung tail yet; help by retrying.
			continue
		}
		if tail.CompareAndSwapNext(nil, n) {
			q.tail.Store(n)
			return
		}
	}
}

// Pop detaches the head node, copies its payload out, deallocates it, and
// returns ErrEmpty if the queue was empty.
func (q *Queue[T]) Pop() (T, error) {
	if q.backend == BackendLockFree {
		return q.popLockFree()
	}
	return q.popSerialized()
}

func (q *Queue[T]) popSerialized() (T, error) {
	var zero T
	if q.locker != nil {
		q.locker.Lock()
		defer q.locker.Unlock()
	}
	h := q.head.Load()
	if h == nil {
		return zero, ErrEmpty
	}
	next := h.Next()
	q.head.Store(next)
	if next == nil {
		q.tail.Store(nil)
	}
	value := h.Value
	h.SetNext(nil)
	_ = q.arena.Deallocate(h)
	return value, nil
}

// popLockFree implements the Michael-Scott pop protocol: CAS head forward,
// read the payload, null the detached node's link before handing it back to
// the arena, and swing tail to null if the detached node was also the tail.
func (q *Queue[T]) popLockFree() (T, error) {
	var zero T
	for {
		h := q.head.Load()
		if h == nil {
			return zero, ErrEmpty
		}
		next := h.Next()
		if !q.head.CompareAndSwap(h, next) {
			continue
		}
		value := h.Value
		h.SetNext(nil)
		if h == q.tail.Load() {
			q.tail.CompareAndSwap(h, nil)
		}
		_ = q.arena.Deallocate(h)
		return value, nil
	}
}

// Size returns the number of nodes currently linked into the queue, derived
// from the node arena's in-use count rather than a separately tracked
// counter.
func (q *Queue[T]) Size() uint32 {
	return q.arena.Length()
}

// Empty reports whether the queue currently has no nodes.
func (q *Queue[T]) Empty() bool {
	return q.arena.Length() == 0
}

// Clear releases every node and resets head/tail to null. Clear is not
// thread-safe: the caller must ensure no concurrent push/pop is in flight.
func (q *Queue[T]) Clear() {
	q.head.Store(nil)
	q.tail.Store(nil)
	q.arena.Clear()
}

// Lock acquires the queue's lock. Only valid for Mutex/Spinlock backends.
func (q *Queue[T]) Lock() error {
	if q.locker == nil {
		return ErrNotImplemented
	}
	q.locker.Lock()
	return nil
}

// Unlock releases the queue's lock. Only valid for Mutex/Spinlock backends.
func (q *Queue[T]) Unlock() error {
	if q.locker == nil {
		return ErrNotImplemented
	}
	q.locker.Unlock()
	return nil
}
