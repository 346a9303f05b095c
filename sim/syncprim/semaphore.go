package syncprim

import (
	"context"
	"fmt"
	"sync"
)

// Semaphore is a counting semaphore. The count never goes negative; Wait
// blocks while it is zero. Waiters are not released in FIFO order.
type Semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// NewSemaphore returns a semaphore holding initial permits.
// Panics if initial is negative.
func NewSemaphore(initial int) *Semaphore {
	if initial < 0 {
		panic(fmt.Sprintf("NewSemaphore: initial count must be >= 0, got %d", initial))
	}
	s := &Semaphore{count: initial}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Wait blocks until a permit is available and takes it.
func (s *Semaphore) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
}

// WaitContext is Wait that gives up when ctx is done. On error no permit was taken.
func (s *Semaphore) WaitContext(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cond.Broadcast()
	})
	defer stop()
	for s.count == 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("semaphore wait: %w", err)
		}
		s.cond.Wait()
	}
	s.count--
	return nil
}

// TryWait takes a permit if one is available and reports whether it did.
func (s *Semaphore) TryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return false
	}
	s.count--
	return true
}

// Signal returns a permit and wakes one waiter.
func (s *Semaphore) Signal() {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	s.cond.Signal()
}

// Count returns the number of available permits.
func (s *Semaphore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
