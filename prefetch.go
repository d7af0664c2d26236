package slab

import (
	"sync/atomic"

	"github.com/vela-ds/slab/syncutil"
)

// prefetchWorker is the optional background goroutine that extends an
// arena by one chunk when free slots fall to or below the configured
// threshold. At most one chunk extension is ever in flight: the trigger is
// a binary semaphore, so repeated Allocate calls that all cross the
// threshold before the worker wakes collapse into a single wakeup, and
// addChunk's own locking serializes against any extension the worker and a
// synchronous Allocate might race to perform.
type prefetchWorker[T any] struct {
	arena     *Arena[T]
	threshold uint32
	sem       *syncutil.Semaphore
	exit      atomic.Bool
	done      chan struct{}
}

func newPrefetchWorker[T any](a *Arena[T], threshold uint32) *prefetchWorker[T] {
	w := &prefetchWorker[T]{
		arena:     a,
		threshold: threshold,
		sem:       syncutil.NewSemaphore(),
		done:      make(chan struct{}),
	}
	go w.run()
	return w
}

// trigger wakes the worker; it never blocks the caller.
func (w *prefetchWorker[T]) trigger() {
	w.sem.Release()
}

func (w *prefetchWorker[T]) run() {
	defer close(w.done)
	for {
		w.sem.Acquire()
		if w.exit.Load() {
			return
		}
		if w.arena.canGrow() {
			_ = w.arena.addChunk()
		}
	}
}

// stop signals the worker to exit and blocks until it has joined.
func (w *prefetchWorker[T]) stop() {
	w.exit.Store(true)
	w.sem.Release()
	<-w.done
}
