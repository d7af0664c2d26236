package syncutil

import "sync"

// Locker is the common interface implemented by *sync.Mutex and *Spinlock,
// plus a no-op implementation. It stands in for the compile-time
// plug_mutex<condition, Mutex> switch of the source design: rather than
// selecting the serialization strategy with a template boolean, callers
// pick a concrete Locker at construction time.
type Locker interface {
	Lock()
	Unlock()
}

// noopLocker implements Locker with no synchronization at all. The raw
// backends of the queue and stack do not use it; they keep a nil Locker.
type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// NoopLocker returns a Locker whose Lock/Unlock are no-ops.
func NoopLocker() Locker { return noopLocker{} }

// NewMutexLocker returns a Locker backed by a fresh sync.Mutex.
func NewMutexLocker() Locker { return &sync.Mutex{} }

// NewSpinlockLocker returns a Locker backed by a fresh Spinlock.
func NewSpinlockLocker() Locker { return &Spinlock{} }
