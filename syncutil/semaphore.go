package syncutil

// Semaphore is a binary semaphore: its count is either 0 or 1. It is used
// by the arena's background prefetch worker, which blocks on Acquire
// between chunk-extension triggers.
type Semaphore struct {
	ch chan struct{}
}

// NewSemaphore returns a Semaphore initialized to 0 (unsignaled).
func NewSemaphore() *Semaphore {
	return &Semaphore{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the semaphore is released, then consumes the
// release.
func (s *Semaphore) Acquire() {
	<-s.ch
}

// Release increments the semaphore, waking at most one waiter. Releasing an
// already-signaled semaphore is a no-op (the count saturates at 1, matching
// the "count in {0, max}" contract of a binary semaphore).
func (s *Semaphore) Release() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}
