package main

import (
	"fmt"
	"sync"
	"time"

	equeue "github.com/eapache/queue"

	"github.com/vela-ds/slab/queue"
)

// mode selects which queue implementation a benchmark run drives.
type mode string

const (
	modeSystem   mode = "system"
	modeCore     mode = "core"
	modeLockFree mode = "lock-free"
)

func (m mode) valid() bool {
	switch m {
	case modeSystem, modeCore, modeLockFree:
		return true
	}
	return false
}

// workerSample is one worker's result: how many values it pushed and
// popped before the run's duration elapsed.
type workerSample struct {
	id  int
	ops uint64
}

// driver is the minimal push/pop surface every benchmarked queue
// configuration must offer, so the worker loop below doesn't care which
// backend it's driving.
type driver interface {
	Push(v int) error
	Pop() (int, bool)
}

// channelDriver wraps a buffered Go channel as the "system" baseline: no
// slab arena, no queue package, just what the standard library offers.
type channelDriver struct {
	ch chan int
}

func newChannelDriver() *channelDriver {
	return &channelDriver{ch: make(chan int, 1024)}
}

func (d *channelDriver) Push(v int) error {
	select {
	case d.ch <- v:
		return nil
	default:
		return fmt.Errorf("channel full")
	}
}

func (d *channelDriver) Pop() (int, bool) {
	select {
	case v := <-d.ch:
		return v, true
	default:
		return 0, false
	}
}

// queueDriver wraps a queue.Queue[int] for the "core" and "lock-free"
// modes.
type queueDriver struct {
	q *queue.Queue[int]
}

func (d *queueDriver) Push(v int) error {
	return d.q.Push(v)
}

func (d *queueDriver) Pop() (int, bool) {
	v, err := d.q.Pop()
	if err != nil {
		return 0, false
	}
	return v, true
}

func newDriver(m mode) (driver, error) {
	switch m {
	case modeSystem:
		return newChannelDriver(), nil
	case modeCore:
		q, err := queue.New[int](queue.Options[int]{Backend: queue.BackendMutex})
		if err != nil {
			return nil, err
		}
		return &queueDriver{q: q}, nil
	case modeLockFree:
		q, err := queue.New[int](queue.Options[int]{Backend: queue.BackendLockFree})
		if err != nil {
			return nil, err
		}
		return &queueDriver{q: q}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", m)
	}
}

// runBench fans out workers goroutines against a driver of the given mode,
// each alternating a push and a pop for duration, and prints per-worker
// plus aggregate throughput.
func runBench(m mode, workers int, duration time.Duration) error {
	d, err := newDriver(m)
	if err != nil {
		return err
	}

	samples := equeue.New()
	var mu sync.Mutex
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			var ops uint64
			for {
				select {
				case <-stop:
					mu.Lock()
					samples.Add(workerSample{id: id, ops: ops})
					mu.Unlock()
					return
				default:
				}
				if err := d.Push(id); err == nil {
					ops++
				}
				if _, ok := d.Pop(); ok {
					ops++
				}
			}
		}(i)
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()

	fmt.Printf("mode=%s workers=%d duration=%s\n", m, workers, duration)

	var total uint64
	for samples.Length() > 0 {
		s := samples.Remove().(workerSample)
		rate := float64(s.ops) / duration.Seconds()
		fmt.Printf("  worker %2d: %10d ops (%.0f ops/s)\n", s.id, s.ops, rate)
		total += s.ops
	}
	fmt.Printf("total: %d ops (%.0f ops/s)\n", total, float64(total)/duration.Seconds())
	return nil
}
