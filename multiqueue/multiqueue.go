// Package multiqueue implements a fan-out of N independent queue.Queue
// instances with first-touch routing, replacing the reference
// implementation's thread-id-modulo-N scheme (Go exposes no public
// goroutine-id) with a caller-supplied RouteKey registered on first use.
package multiqueue

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/vela-ds/slab/queue"
)

// ErrNoQueues is returned by New when n < 1.
var ErrNoQueues = errors.New("multiqueue: n must be >= 1")

// RouteKey identifies the caller for first-touch routing. Callers typically
// pass a worker index, a pointer to their own per-goroutine state, or any
// other comparable value stable for the lifetime of one producer.
type RouteKey any

// MultiQueue owns N sub-queues and routes each RouteKey to a sub-queue
// fixed on its first Push, mirroring the reference's first-touch
// thread-to-queue registration without requiring a real thread id.
type MultiQueue[T any] struct {
	queues []*queue.Queue[T]
	routes sync.Map // RouteKey -> int (sub-queue index)
	next   atomic.Uint64
	popAt  atomic.Uint64
}

// New constructs a MultiQueue with n sub-queues, each built with the given
// backend.
func New[T any](n int, backend queue.Backend) (*MultiQueue[T], error) {
	if n < 1 {
		return nil, ErrNoQueues
	}
	mq := &MultiQueue[T]{queues: make([]*queue.Queue[T], n)}
	for i := range mq.queues {
		q, err := queue.New[T](queue.Options[T]{Backend: backend})
		if err != nil {
			return nil, err
		}
		mq.queues[i] = q
	}
	return mq, nil
}

// Push routes value to the sub-queue first associated with key, assigning
// one round-robin on key's first appearance.
func (mq *MultiQueue[T]) Push(key RouteKey, value T) error {
	idx := mq.routeFor(key)
	return mq.queues[idx].Push(value)
}

func (mq *MultiQueue[T]) routeFor(key RouteKey) int {
	if v, ok := mq.routes.Load(key); ok {
		return v.(int)
	}
	idx := int(mq.next.Add(1)-1) % len(mq.queues)
	actual, _ := mq.routes.LoadOrStore(key, idx)
	return actual.(int)
}

// Pop round-robins across sub-queues, returning the first non-empty result.
// It returns queue.ErrEmpty only when every sub-queue is empty.
func (mq *MultiQueue[T]) Pop() (T, error) {
	n := len(mq.queues)
	start := int(mq.popAt.Add(1) - 1)
	var zero T
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		v, err := mq.queues[idx].Pop()
		if err == nil {
			return v, nil
		}
	}
	return zero, queue.ErrEmpty
}

// Size returns the sum of all sub-queue sizes.
func (mq *MultiQueue[T]) Size() uint32 {
	var total uint32
	for _, q := range mq.queues {
		total += q.Size()
	}
	return total
}

// Empty reports whether every sub-queue is empty.
func (mq *MultiQueue[T]) Empty() bool {
	for _, q := range mq.queues {
		if !q.Empty() {
			return false
		}
	}
	return true
}

// Clear clears every sub-queue and forgets all route assignments.
func (mq *MultiQueue[T]) Clear() {
	for _, q := range mq.queues {
		q.Clear()
	}
	mq.routes = sync.Map{}
}

// NumQueues returns the number of sub-queues.
func (mq *MultiQueue[T]) NumQueues() int {
	return len(mq.queues)
}
