package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestMailboxTimeout is scenario 6: an empty mailbox's Read with a 50ms
// timeout returns ReadTimeout within [50ms, 200ms]; after a write, a second
// Read with a 1s timeout returns the written value immediately.
func TestMailboxTimeout(t *testing.T) {
	m, err := New[int]()
	require.NoError(t, err)

	start := time.Now()
	v, result := m.Read(50 * time.Millisecond)
	elapsed := time.Since(start)
	require.Equal(t, ReadTimeout, result)
	require.Equal(t, 0, v)
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.LessOrEqual(t, elapsed, 200*time.Millisecond)

	require.NoError(t, m.Write(7))
	v, result = m.Read(time.Second)
	require.Equal(t, ReadOK, result)
	require.Equal(t, 7, v)
}

func TestMailboxWriteWakesBlockedReader(t *testing.T) {
	m, err := New[string]()
	require.NoError(t, err)

	resultCh := make(chan string, 1)
	go func() {
		v, result := m.Read(time.Second)
		if result == ReadOK {
			resultCh <- v
		} else {
			resultCh <- "timeout"
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.Write("hello"))

	select {
	case got := <-resultCh:
		require.Equal(t, "hello", got)
	case <-time.After(time.Second):
		t.Fatal("Read did not wake up after Write")
	}
}

func TestMailboxEmpty(t *testing.T) {
	m, err := New[int]()
	require.NoError(t, err)
	require.True(t, m.Empty())
	require.NoError(t, m.Write(1))
	require.False(t, m.Empty())
	require.Equal(t, uint32(1), m.Size())
	m.Clear()
	require.True(t, m.Empty())
}
