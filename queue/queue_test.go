package queue

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFOSingleThreaded(t *testing.T) {
	q, err := New[int](Options[int]{Backend: BackendLockFree})
	require.NoError(t, err)
	defer q.Clear()

	for _, v := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, q.Push(v))
	}
	for _, want := range []int{1, 2, 3, 4, 5} {
		got, err := q.Pop()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err = q.Pop()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestQueueEmptyPopLeavesResultUntouched(t *testing.T) {
	q, err := New[int](Options[int]{Backend: BackendMutex})
	require.NoError(t, err)
	defer q.Clear()

	v, err := q.Pop()
	require.ErrorIs(t, err, ErrEmpty)
	require.Equal(t, 0, v)
}

func TestQueueBackendsAgreeOnFIFO(t *testing.T) {
	for _, backend := range []Backend{BackendRaw, BackendMutex, BackendSpinlock, BackendLockFree} {
		q, err := New[int](Options[int]{Backend: backend})
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			require.NoError(t, q.Push(i))
		}
		require.Equal(t, uint32(100), q.Size())
		for i := 0; i < 100; i++ {
			v, err := q.Pop()
			require.NoError(t, err)
			require.Equal(t, i, v)
		}
		require.True(t, q.Empty())
		q.Clear()
	}
}

func TestQueueLockUnlockOnlyOnSerializedBackends(t *testing.T) {
	lf, err := New[int](Options[int]{Backend: BackendLockFree})
	require.NoError(t, err)
	require.ErrorIs(t, lf.Lock(), ErrNotImplemented)
	require.ErrorIs(t, lf.Unlock(), ErrNotImplemented)

	m, err := New[int](Options[int]{Backend: BackendMutex})
	require.NoError(t, err)
	require.NoError(t, m.Lock())
	require.NoError(t, m.Unlock())
}

// TestQueueSPSC is scenario 4: a single producer pushes 1..=1000, a single
// consumer drains and collects; the result must equal [1, 2, ..., 1000]
// exactly.
func TestQueueSPSC(t *testing.T) {
	q, err := New[int](Options[int]{Backend: BackendLockFree})
	require.NoError(t, err)
	defer q.Clear()

	const n = 1000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= n; i++ {
			require.NoError(t, q.Push(i))
		}
	}()

	got := make([]int, 0, n)
	for len(got) < n {
		v, err := q.Pop()
		if err != nil {
			continue
		}
		got = append(got, v)
	}
	wg.Wait()

	want := make([]int, n)
	for i := range want {
		want[i] = i + 1
	}
	require.Equal(t, want, got)
}

// TestQueueMPMC is scenario 5: eight producers each push a disjoint range of
// 100,000 integers; four consumers drain until 800,000 values have been
// popped. No value appears twice, the observed set equals the union of
// produced values, and each producer's own subsequence (filtered by its
// prefix) arrives in increasing order at every consumer.
func TestQueueMPMC(t *testing.T) {
	q, err := New[int](Options[int]{Backend: BackendLockFree})
	require.NoError(t, err)
	defer q.Clear()

	const producers = 8
	const perProducer = 100_000
	const total = producers * perProducer

	var pwg sync.WaitGroup
	pwg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer pwg.Done()
			base := p * 1_000_000
			for i := 0; i < perProducer; i++ {
				for q.Push(base+i) != nil {
					// arena momentarily refused growth; retry
				}
			}
		}(p)
	}

	var mu sync.Mutex
	perProducerSeen := make([][]int, producers)
	seen := make(map[int]bool, total)
	var cwg sync.WaitGroup
	const consumers = 4
	// perConsumerSeen[c][p] holds producer p's values in the order consumer c
	// popped them. Values are recorded after Pop returns, so the interleaving
	// across consumers is not the queue's pop order; each consumer's own is.
	perConsumerSeen := make([][][]int, consumers)
	cwg.Add(consumers)
	for c := 0; c < consumers; c++ {
		perConsumerSeen[c] = make([][]int, producers)
		go func(c int) {
			defer cwg.Done()
			for {
				mu.Lock()
				if len(seen) >= total {
					mu.Unlock()
					return
				}
				mu.Unlock()
				v, err := q.Pop()
				if err != nil {
					continue
				}
				mu.Lock()
				if seen[v] {
					mu.Unlock()
					t.Errorf("value %d delivered twice", v)
					return
				}
				seen[v] = true
				p := v / 1_000_000
				perProducerSeen[p] = append(perProducerSeen[p], v)
				perConsumerSeen[c][p] = append(perConsumerSeen[c][p], v)
				done := len(seen) >= total
				mu.Unlock()
				if done {
					return
				}
			}
		}(c)
	}

	pwg.Wait()
	cwg.Wait()

	require.Len(t, seen, total)
	for p := 0; p < producers; p++ {
		for c := 0; c < consumers; c++ {
			seq := perConsumerSeen[c][p]
			require.True(t, sort.IntsAreSorted(seq), "producer %d's sequence is not increasing at consumer %d", p, c)
		}
		require.Len(t, perProducerSeen[p], perProducer)
	}
}
