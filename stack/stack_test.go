package stack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackLIFOSingleThreaded(t *testing.T) {
	s, err := New[int](Options[int]{Backend: BackendLockFree})
	require.NoError(t, err)
	defer s.Clear()

	for _, v := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, s.Push(v))
	}
	for _, want := range []int{5, 4, 3, 2, 1} {
		got, err := s.Pop()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err = s.Pop()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestStackBackendsAgreeOnLIFO(t *testing.T) {
	for _, backend := range []Backend{BackendRaw, BackendMutex, BackendSpinlock, BackendLockFree} {
		s, err := New[int](Options[int]{Backend: backend})
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			require.NoError(t, s.Push(i))
		}
		require.Equal(t, uint32(100), s.Size())
		for i := 99; i >= 0; i-- {
			v, err := s.Pop()
			require.NoError(t, err)
			require.Equal(t, i, v)
		}
		require.True(t, s.Empty())
		s.Clear()
	}
}

func TestStackConservationUnderContention(t *testing.T) {
	s, err := New[int](Options[int]{Backend: BackendLockFree})
	require.NoError(t, err)
	defer s.Clear()

	const pushers = 4
	const perPusher = 10_000
	var wg sync.WaitGroup
	wg.Add(pushers)
	for p := 0; p < pushers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perPusher; i++ {
				require.NoError(t, s.Push(i))
			}
		}()
	}
	wg.Wait()
	require.Equal(t, uint32(pushers*perPusher), s.Size())

	var popped int
	for {
		_, err := s.Pop()
		if err != nil {
			break
		}
		popped++
	}
	require.Equal(t, pushers*perPusher, popped)
}
