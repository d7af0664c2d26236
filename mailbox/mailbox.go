// Package mailbox composes a lock-free queue.Queue with a broadcast
// syncutil.Event to give blocking consumers a bounded wait instead of a
// busy poll.
package mailbox

import (
	"time"

	"github.com/vela-ds/slab/queue"
	"github.com/vela-ds/slab/syncutil"
)

// ReadResult reports how Read returned.
type ReadResult int

const (
	// ReadOK means a value was popped and is valid.
	ReadOK ReadResult = iota
	// ReadTimeout means the wait expired with nothing available.
	ReadTimeout
)

// Mailbox is a queue.Queue paired with an Event so Read can block with a
// timeout instead of spinning on Pop.
type Mailbox[T any] struct {
	q     *queue.Queue[T]
	event *syncutil.Event
}

// New constructs a Mailbox backed by a lock-free queue.Queue.
func New[T any]() (*Mailbox[T], error) {
	q, err := queue.New[T](queue.Options[T]{Backend: queue.BackendLockFree})
	if err != nil {
		return nil, err
	}
	return &Mailbox[T]{q: q, event: syncutil.NewEvent()}, nil
}

// Write pushes value and wakes any goroutine blocked in Read.
func (m *Mailbox[T]) Write(value T) error {
	if err := m.q.Push(value); err != nil {
		return err
	}
	m.event.Notify()
	return nil
}

// Read pops a value, waiting up to timeout if the queue is momentarily
// empty. Spurious wakes are tolerated: on each wake Read re-checks the
// queue before waiting again. It returns ReadTimeout (and the zero value)
// if timeout elapses with nothing available.
func (m *Mailbox[T]) Read(timeout time.Duration) (T, ReadResult) {
	deadline := time.Now().Add(timeout)
	for {
		if v, err := m.q.Pop(); err == nil {
			return v, ReadOK
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, ReadTimeout
		}
		// Loop back to Pop even on WaitTimeout: a Write that landed between
		// the failed Pop and Wait is not signaled to this waiter.
		m.event.Wait(remaining)
	}
}

// Size returns the number of values currently queued.
func (m *Mailbox[T]) Size() uint32 { return m.q.Size() }

// Empty reports whether the mailbox currently holds no values.
func (m *Mailbox[T]) Empty() bool { return m.q.Empty() }

// Clear discards every queued value.
func (m *Mailbox[T]) Clear() { m.q.Clear() }
