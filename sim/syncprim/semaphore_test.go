package syncprim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSemaphore_WaitsThenSignalsRestoreCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, 10} {
		// GIVEN a semaphore holding n permits
		s := NewSemaphore(n)

		// WHEN n waits are followed by n signals
		for i := 0; i < n; i++ {
			s.Wait()
		}
		assert.Equal(t, 0, s.Count())
		for i := 0; i < n; i++ {
			s.Signal()
		}

		// THEN the count is back to n
		assert.Equal(t, n, s.Count())
	}
}

func TestSemaphore_TryWait(t *testing.T) {
	s := NewSemaphore(1)
	assert.True(t, s.TryWait())
	assert.False(t, s.TryWait())
	assert.Equal(t, 0, s.Count())
	assert.Panics(t, func() { NewSemaphore(-1) })
}

func TestSemaphore_WaitBlocksUntilSignal(t *testing.T) {
	s := NewSemaphore(0)
	acquired := make(chan struct{})
	go func() {
		s.Wait()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("Wait returned with a zero count")
	case <-time.After(20 * time.Millisecond):
	}

	s.Signal()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Wait not released by Signal")
	}
	assert.Equal(t, 0, s.Count())
}

func TestSemaphore_WaitContextCancelled(t *testing.T) {
	// GIVEN an exhausted semaphore and a blocked waiter
	s := NewSemaphore(0)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.WaitContext(ctx) }()

	// WHEN the context is cancelled
	time.Sleep(10 * time.Millisecond)
	cancel()

	// THEN the waiter returns the context error without taking a permit
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("WaitContext ignored cancellation")
	}
	s.Signal()
	assert.Equal(t, 1, s.Count())
}

func TestSemaphore_CountNeverNegativeUnderContention(t *testing.T) {
	// GIVEN 2 permits shared by 20 goroutines doing 50 wait/signal pairs each
	s := NewSemaphore(2)
	var wg sync.WaitGroup
	var mu sync.Mutex
	inside, peak := 0, 0
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Wait()
				mu.Lock()
				inside++
				peak = max(peak, inside)
				mu.Unlock()
				assert.GreaterOrEqual(t, s.Count(), 0)
				mu.Lock()
				inside--
				mu.Unlock()
				s.Signal()
			}
		}()
	}
	wg.Wait()

	// THEN at most 2 were inside at once and the count is restored
	assert.LessOrEqual(t, peak, 2)
	assert.Equal(t, 2, s.Count())
}
