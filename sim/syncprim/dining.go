package syncprim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// Table runs the dining philosophers. Philosopher i picks up fork i, then
// fork (i+1) mod n. Every philosopher uses the same order, so the table can
// reach circular wait; Stop still ends it because fork waits are cancellable.
type Table struct {
	cfg   DiningConfig
	forks []*Semaphore
	rngs  []*rand.Rand

	mu     sync.Mutex
	meals  []int
	held   []int // forks held per philosopher
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewTable seats cfg.Philosophers philosophers with one fork between each pair.
// Panics on an invalid configuration.
func NewTable(cfg DiningConfig, key sim.SimulationKey) *Table {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("syncprim.NewTable: %v", err))
	}
	rng := sim.NewPartitionedRNG(key)
	t := &Table{
		cfg:   cfg,
		forks: make([]*Semaphore, cfg.Philosophers),
		rngs:  make([]*rand.Rand, cfg.Philosophers),
		meals: make([]int, cfg.Philosophers),
		held:  make([]int, cfg.Philosophers),
	}
	for i := range t.forks {
		t.forks[i] = NewSemaphore(1)
		t.rngs[i] = rng.ForSubsystem(sim.SubsystemPhilosopher(i))
	}
	return t
}

// Start launches one goroutine per philosopher. They run until ctx is
// cancelled or Stop is called.
func (t *Table) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runningLocked() {
		return fmt.Errorf("start dining: already running: %w", sim.ErrStateConflict)
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	for i := range t.forks {
		t.wg.Add(1)
		go t.dine(ctx, i)
	}
	go func(done chan struct{}) {
		t.wg.Wait()
		close(done)
	}(t.done)
	logrus.Infof("dining: %d philosophers seated", len(t.forks))
	return nil
}

// Stop cancels every philosopher and waits until all have left the table
// with their forks put down. Stopping a stopped table is a no-op.
func (t *Table) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	logrus.Infof("dining: table stopped, meals %v", t.Meals())
}

// IsRunning reports whether any philosopher is still at the table.
func (t *Table) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runningLocked()
}

func (t *Table) runningLocked() bool {
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Meals returns how many times each philosopher has eaten.
func (t *Table) Meals() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.meals...)
}

// ForksHeld returns the number of forks currently picked up.
func (t *Table) ForksHeld() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, h := range t.held {
		n += h
	}
	return n
}

func (t *Table) hold(i, delta int) {
	t.mu.Lock()
	t.held[i] += delta
	t.mu.Unlock()
}

func (t *Table) dine(ctx context.Context, i int) {
	defer t.wg.Done()
	left, right := t.forks[i], t.forks[(i+1)%len(t.forks)]
	rng := t.rngs[i]
	for {
		logrus.Debugf("dining: philosopher %d thinking", i)
		if !sleep(ctx, t.cfg.Think.pick(rng)) {
			return
		}
		if left.WaitContext(ctx) != nil {
			return
		}
		t.hold(i, 1)
		logrus.Debugf("dining: philosopher %d took left fork %d", i, i)
		if right.WaitContext(ctx) != nil {
			left.Signal()
			t.hold(i, -1)
			return
		}
		t.hold(i, 1)

		logrus.Debugf("dining: philosopher %d eating", i)
		ate := sleep(ctx, t.cfg.Eat.pick(rng))
		if ate {
			t.mu.Lock()
			t.meals[i]++
			t.mu.Unlock()
		}
		right.Signal()
		left.Signal()
		t.hold(i, -2)
		if !ate {
			return
		}
	}
}
